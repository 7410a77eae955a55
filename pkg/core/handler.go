package core

import "context"

// Handler consumes extracted records during an orchestration pass.
//
// ProcessRecord is called once per discovered file and may run concurrently
// for different files. Finalize is called once, after every ProcessRecord
// call has returned, with the results in discovery order.
type Handler[R any] interface {
	ProcessRecord(ctx context.Context, fields FieldSet, meta PathMetadata) (R, error)
	Finalize(ctx context.Context, results []R) error
}

// HandlerFuncs adapts a pair of functions to the Handler interface.
// A nil Finalize is a no-op.
type HandlerFuncs[R any] struct {
	Process func(ctx context.Context, fields FieldSet, meta PathMetadata) (R, error)
	Final   func(ctx context.Context, results []R) error
}

// ProcessRecord calls h.Process.
func (h HandlerFuncs[R]) ProcessRecord(ctx context.Context, fields FieldSet, meta PathMetadata) (R, error) {
	return h.Process(ctx, fields, meta)
}

// Finalize calls h.Final if set.
func (h HandlerFuncs[R]) Finalize(ctx context.Context, results []R) error {
	if h.Final == nil {
		return nil
	}
	return h.Final(ctx, results)
}
