package logger

import "context"

// Discard drops every entry. The CLI and tests use it when no output is wanted.
var Discard Logger = discard{}

var _ Logger = discard{}

type discard struct{}

// NewNoopLogger returns Discard.
func NewNoopLogger() Logger { return Discard }

func (discard) Debug(context.Context, string, ...Fields)        {}
func (discard) Info(context.Context, string, ...Fields)         {}
func (discard) Warn(context.Context, string, ...Fields)         {}
func (discard) Error(context.Context, string, error, ...Fields) {}
func (discard) Fatal(context.Context, string, error, ...Fields) {}

func (d discard) WithFields(Fields) Logger { return d }

func (d discard) ForContext(context.Context) Logger { return d }
