package types

import (
	"context"
	"fmt"
	"log/slog"
)

// slogExpr wraps an Expr as a slog.LogValuer so expressions are only
// rendered when the record is actually written
func slogExpr(expr Expr) slog.LogValuer {
	return exprLogValuer{expr}
}

type exprLogValuer struct{ Expr }

func (l exprLogValuer) LogValue() slog.Value {
	if l.Expr == nil {
		return slog.StringValue("None")
	}
	return slog.GroupValue(
		slog.String("str", l.String()),
		slog.String("hash", fmt.Sprintf("%x", l.Hash())),
	)
}

func exprString(e Expr) string {
	if e == nil {
		return "None"
	}
	return e.String()
}

func newExprLogger(underlying slog.Handler) *slog.Logger {
	return slog.New(ExprSlogHandler(underlying))
}

// ExprSlogHandler is a slog.Handler capable of lazy-printing type expressions
func ExprSlogHandler(underlying slog.Handler) slog.Handler {
	return &exprLogHandler{underlying: underlying}
}

type exprLogHandler struct {
	underlying slog.Handler
}

func wrapExprAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	switch value := attr.Value.Any().(type) {
	case Expr:
		attr.Value = slog.AnyValue(slogExpr(value))
	case []Expr:
		rendered := make([]string, len(value))
		for i, e := range value {
			rendered[i] = exprString(e)
		}
		attr.Value = slog.AnyValue(rendered)
	}
	return attr
}

func (l *exprLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *exprLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(wrapExprAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *exprLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = wrapExprAttr(attr)
	}
	return ExprSlogHandler(l.underlying.WithAttrs(wrapped))
}

func (l *exprLogHandler) WithGroup(name string) slog.Handler {
	return ExprSlogHandler(l.underlying.WithGroup(name))
}
