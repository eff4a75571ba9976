package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bjaus/extract"
)

type order struct {
	ID    string `json:"id"`
	Units int    `json:"units"`
}

func (o order) Validate() error {
	if o.ID == "" {
		return errors.New("id is required")
	}
	if o.Units <= 0 {
		return fmt.Errorf("units must be positive, got %d", o.Units)
	}
	return nil
}

// register installs the demo units on app in dispatch order.
func register(app *extract.App, log *zap.Logger) {
	app.
		Handle(extract.Named("none", extract.Fn0(func() {
			log.Info("none")
		}))).
		Handle(extract.Named("one", extract.Fn1(func(s string) {
			log.Info("one", zap.String("s", s))
		}))).
		Handle(extract.Named("two", extract.Fn2(func(a uint32, b uint64) {
			log.Info("two", zap.Uint32("a", a), zap.Uint64("b", b))
		}))).
		Handle(extract.Named("mixed", extract.Reflect(func(s string, n uint64) {
			log.Info("mixed", zap.String("s", s), zap.Uint64("n", n))
		}))).
		Handle(extract.Named("double", extract.Func1(func(n int64) (int64, error) {
			return n * 2, nil
		}))).
		Handle(extract.Named("field", extract.Fn1(func(f extract.Fields) {
			if len(f) > 0 {
				log.Info("field", zap.Any("fields", map[string]string(f)))
			}
		}))).
		Handle(extract.Named("order", extract.When(
			extract.FieldEquals("kind", "order"),
			extract.Proc1(func(o extract.JSON[order]) error {
				log.Info("order", zap.String("id", o.Value.ID), zap.Int("units", o.Value.Units))
				return nil
			}),
		)))
}
