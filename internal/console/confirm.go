package console

import (
	"context"
)

// Confirmer asks the person at the console to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt, e.g. for --yes.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// ConfirmAndDelete gates del behind confirmation. A declined prompt makes no call and
// returns (false, nil). After a successful delete, reload runs so the list reflects the
// server; a failed delete returns its error and reload is not called.
func ConfirmAndDelete(ctx context.Context, confirmer Confirmer, prompt string, del func(context.Context) error, reload func(context.Context) error) (bool, error) {
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := del(ctx); err != nil {
		return true, err
	}
	if reload == nil {
		return true, nil
	}
	return true, reload(ctx)
}
