package console

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// Remote is the CRUD surface of one catalogue resource.
type Remote[T, P any] interface {
	List(ctx context.Context, params Params) (Page[T], error)
	Create(ctx context.Context, values P) (T, error)
	Update(ctx context.Context, id string, values P) (T, error)
	Delete(ctx context.Context, id string) error
}

// Resource describes an entity to a Manager.
type Resource[T, P any] struct {
	Singular string
	Plural   string
	Filters  []string
	ID       func(T) string
	Label    func(T) string
	Payload  func(T) P
	Defaults func() P
}

// Options are shared by every screen.
type Options struct {
	PageSize  int
	Validator *validation.Validator
	Notifier  Notifier
	Confirmer Confirmer
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Notifier == nil {
		o.Notifier = NewLogNotifier(o.Logger)
	}
	if o.Validator == nil {
		o.Validator = validation.New()
	}
	if o.Confirmer == nil {
		o.Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
	}
	return o
}

// Manager binds a paged list, a create/update form and confirmed deletes to a Remote.
// Every successful write is followed by a reload; nothing is patched locally.
type Manager[T, P any] struct {
	res       Resource[T, P]
	remote    Remote[T, P]
	list      *ListView[T]
	form      *Form[P]
	confirmer Confirmer
	notifier  Notifier
	logger    *zap.Logger
	onReload  []func(context.Context) error
}

// NewManager builds a manager for res.
func NewManager[T, P any](res Resource[T, P], remote Remote[T, P], opts Options) *Manager[T, P] {
	opts = opts.withDefaults()
	m := &Manager[T, P]{
		res:       res,
		remote:    remote,
		confirmer: opts.Confirmer,
		notifier:  opts.Notifier,
		logger:    opts.Logger.With(zap.String("resource", res.Plural)),
	}
	query := NewListQuery(opts.PageSize, res.Filters...)
	m.list = NewListView[T](res.Plural, query, remote.List, opts.Notifier, m.logger)
	m.form = NewForm[P](res.Defaults, opts.Validator, "invalid "+res.Singular)
	return m
}

func (m *Manager[T, P]) List() *ListView[T] { return m.list }
func (m *Manager[T, P]) Form() *Form[P]     { return m.form }

// OnReload registers a step that runs after every successful list reload.
func (m *Manager[T, P]) OnReload(fn func(context.Context) error) {
	m.onReload = append(m.onReload, fn)
}

// Reload fetches the current page and runs the reload hooks.
func (m *Manager[T, P]) Reload(ctx context.Context) error {
	if err := m.list.Reload(ctx); err != nil {
		return err
	}
	for _, fn := range m.onReload {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ApplyFilter sets one filter, returns to page 1 and reloads.
func (m *Manager[T, P]) ApplyFilter(ctx context.Context, field, value string) error {
	if err := m.list.SetFilter(field, value); err != nil {
		return err
	}
	return m.Reload(ctx)
}

// ClearFilters drops every filter, returns to page 1 and reloads.
func (m *Manager[T, P]) ClearFilters(ctx context.Context) error {
	m.list.ClearFilters()
	return m.Reload(ctx)
}

// GoTo loads page. Out-of-range pages are rejected without a fetch.
func (m *Manager[T, P]) GoTo(ctx context.Context, page int) error {
	if err := m.list.GoTo(page); err != nil {
		return err
	}
	return m.Reload(ctx)
}

func (m *Manager[T, P]) Next(ctx context.Context) error {
	return m.GoTo(ctx, m.list.PageInfo().Page+1)
}

func (m *Manager[T, P]) Prev(ctx context.Context) error {
	return m.GoTo(ctx, m.list.PageInfo().Page-1)
}

// Item returns a loaded item by id.
func (m *Manager[T, P]) Item(id string) (T, bool) {
	return m.list.Find(func(item T) bool { return m.res.ID(item) == id })
}

// Edit puts the loaded item id into edit mode, replacing any previous target.
func (m *Manager[T, P]) Edit(id string) error {
	item, ok := m.Item(id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s is not on the current page", m.res.Singular, id))
	}
	m.form.Edit(id, m.res.Payload(item))
	return nil
}

// Cancel leaves edit mode.
func (m *Manager[T, P]) Cancel() {
	m.form.Cancel()
}

// Submit sends the form as a create or an update of the edit target, then reloads.
// Validation failures are returned without a notification or network call.
func (m *Manager[T, P]) Submit(ctx context.Context) error {
	sent := false
	mode, err := m.form.Submit(ctx, func(ctx context.Context, mode Mode, id string, values P) error {
		sent = true
		var err error
		if mode == ModeUpdate {
			_, err = m.remote.Update(ctx, id, values)
		} else {
			_, err = m.remote.Create(ctx, values)
		}
		return err
	})
	if err != nil {
		if sent {
			m.logger.Warn("submit failed", zap.String("mode", mode.String()), zap.Error(err))
			m.notifier.Notify(failure(err, "Failed to %s %s. Please try again.", mode, m.res.Singular))
		}
		return err
	}

	m.notifier.Notify(successf("%s %s successfully!", capitalize(m.res.Singular), mode.pastTense()))
	return m.reloadAfterWrite(ctx)
}

// Delete asks for confirmation and removes id. It reports whether the delete was
// confirmed; a declined prompt changes nothing.
func (m *Manager[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	label := id
	if item, ok := m.Item(id); ok && m.res.Label != nil {
		label = m.res.Label(item)
	}
	prompt := fmt.Sprintf("Delete %s %q? This cannot be undone.", m.res.Singular, label)

	deleted := false
	confirmed, err := ConfirmAndDelete(ctx, m.confirmer, prompt,
		func(ctx context.Context) error {
			if err := m.remote.Delete(ctx, id); err != nil {
				m.notifier.Notify(failure(err, "Failed to delete %s. Please try again.", m.res.Singular))
				return err
			}
			deleted = true
			if m.form.EditID() == id {
				m.form.Cancel()
			}
			m.notifier.Notify(successf("%s deleted successfully!", capitalize(m.res.Singular)))
			return nil
		},
		m.reloadAfterWrite,
	)
	if err != nil && !deleted {
		m.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
	}
	return confirmed, err
}

func (m *Manager[T, P]) reloadAfterWrite(ctx context.Context) error {
	if err := m.Reload(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
		return err
	}
	return nil
}
