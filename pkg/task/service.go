package task

import (
	"fmt"
	"log/slog"
)

// Result is the successful outcome of a command: the lines to print, if any.
type Result struct {
	Lines []string
}

func message(format string, args ...any) Result {
	return Result{Lines: []string{fmt.Sprintf(format, args...)}}
}

// Formatter renders one task for `list`.
type Formatter func(Task) string

// Service runs task-cli commands against a Store. Every method either
// returns a Result or an *Error; none of them print or exit.
type Service struct {
	store  *Store
	format Formatter
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFormatter sets how `list` renders tasks.
func WithFormatter(f Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.format = f
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service over store.
func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		format: Task.String,
		logger: slog.New(discardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// List renders every task. It never creates the store file.
func (s *Service) List() (Result, error) {
	if !s.store.Exists() {
		return Result{}, &Error{Kind: KindMissingStore}
	}
	tasks, err := s.load()
	if err != nil {
		return Result{}, err
	}
	if len(tasks) == 0 {
		return Result{}, &Error{Kind: KindEmpty}
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, s.format(*t))
	}
	return Result{Lines: lines}, nil
}

// Add appends a pending task, creating the store if needed. Success prints
// nothing.
func (s *Service) Add(text string) (Result, error) {
	if err := s.store.EnsureExists(true); err != nil {
		return Result{}, &Error{Kind: KindIO, Err: err}
	}
	tasks, err := s.load()
	if err != nil {
		return Result{}, err
	}
	t := tasks.Add(text)
	if err := s.save(tasks); err != nil {
		return Result{}, err
	}
	s.logger.Debug("added task", "id", t.ID)
	return Result{}, nil
}

// Update replaces the text of the task with the given ID.
func (s *Service) Update(idArg, text string) (Result, error) {
	id, tasks, err := s.prepare(idArg)
	if err != nil {
		return Result{}, err
	}
	if !tasks.Update(id, text) {
		return Result{}, &Error{Kind: KindNotFound, ID: id}
	}
	if err := s.save(tasks); err != nil {
		return Result{}, err
	}
	return message("Task %d updated.", id), nil
}

// Delete removes the task with the given ID and renumbers the rest. The
// reported ID is the one requested, not a renumbered one.
func (s *Service) Delete(idArg string) (Result, error) {
	id, tasks, err := s.prepare(idArg)
	if err != nil {
		return Result{}, err
	}
	if !tasks.Delete(id) {
		return Result{}, &Error{Kind: KindNotFound, ID: id}
	}
	if err := s.save(tasks); err != nil {
		return Result{}, err
	}
	return message("Task %d deleted.", id), nil
}

// SetStatus sets the status of the task with the given ID.
func (s *Service) SetStatus(idArg string, status Status) (Result, error) {
	id, tasks, err := s.prepare(idArg)
	if err != nil {
		return Result{}, err
	}
	if !tasks.SetStatus(id, status) {
		return Result{}, &Error{Kind: KindNotFound, ID: id}
	}
	if err := s.save(tasks); err != nil {
		return Result{}, err
	}
	return message("Set status to '%s' for task %d", status, id), nil
}

// prepare parses the ID before touching the store, then loads a non-empty
// list.
func (s *Service) prepare(idArg string) (int, List, error) {
	id, err := ParseID(idArg)
	if err != nil {
		return 0, nil, err
	}
	tasks, err := s.load()
	if err != nil {
		return 0, nil, err
	}
	if len(tasks) == 0 {
		return 0, nil, &Error{Kind: KindEmpty}
	}
	return id, tasks, nil
}

func (s *Service) load() (List, error) {
	tasks, err := s.store.Load()
	if err != nil {
		return nil, &Error{Kind: KindIO, Err: err}
	}
	return tasks, nil
}

func (s *Service) save(tasks List) error {
	if err := s.store.Save(tasks); err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	return nil
}
