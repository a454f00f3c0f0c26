package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Options struct {
	Ctx *Context
}

// Deps holds the already constructed dependencies of a module.
type Deps map[string]Analyzer

// Constructor builds an active module. It is not called for inactive ones.
type Constructor func(opts Options, deps Deps) (Analyzer, error)

// Spec describes a module to the registry.
type Spec struct {
	Name         string
	Dependencies []string

	// nil means always active
	Active func(c *Combatant) bool

	New Constructor
}

type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic module dependency: %s", strings.Join(e.Cycle, " -> "))
}

type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("module %q depends on unregistered module %q", e.Module, e.Dependency)
}

type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q registered twice", e.Name)
}

type Registry struct {
	specs []Spec
	index map[string]int
}

func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs: make([]Spec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for _, s := range specs {
		if _, ok := r.index[s.Name]; ok {
			return nil, errors.WithStack(&DuplicateModuleError{Name: s.Name})
		}
		r.index[s.Name] = len(r.specs)
		r.specs = append(r.specs, s)
	}

	return r, nil
}

const (
	white = iota
	grey
	black
)

// Order lists the module names so that every module follows its
// dependencies. Independent modules keep registration order.
func (r *Registry) Order() ([]string, error) {
	mark := make([]int, len(r.specs))
	order := make([]string, 0, len(r.specs))
	stack := make([]string, 0, 8)

	var visit func(i int) error
	visit = func(i int) error {
		s := r.specs[i]

		switch mark[i] {
		case black:
			return nil
		case grey:
			from := 0
			for k, name := range stack {
				if name == s.Name {
					from = k
					break
				}
			}
			cycle := append(append([]string{}, stack[from:]...), s.Name)
			return errors.WithStack(&CyclicDependencyError{Cycle: cycle})
		}

		mark[i] = grey
		stack = append(stack, s.Name)

		for _, dep := range s.Dependencies {
			k, ok := r.index[dep]
			if !ok {
				return errors.WithStack(&MissingDependencyError{Module: s.Name, Dependency: dep})
			}
			if err := visit(k); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		mark[i] = black
		order = append(order, s.Name)
		return nil
	}

	for i := range r.specs {
		if err := visit(i); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Module is a constructed analyzer together with its registry name.
type Module struct {
	Name     string
	Analyzer Analyzer
}

// Build constructs every module in dependency order. A module is inert when
// its activation check fails or when one of its dependencies is inert.
func (r *Registry) Build(opts Options) ([]Module, error) {
	order, err := r.Order()
	if err != nil {
		return nil, err
	}

	built := make(map[string]Analyzer, len(order))
	modules := make([]Module, 0, len(order))

	for _, name := range order {
		s := r.specs[r.index[name]]

		a, err := r.construct(s, opts, built)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", name)
		}
		if a == nil {
			a = Inert()
		}

		built[name] = a
		modules = append(modules, Module{Name: name, Analyzer: a})
	}

	return modules, nil
}

func (r *Registry) construct(s Spec, opts Options, built map[string]Analyzer) (Analyzer, error) {
	if s.Active != nil && !s.Active(opts.Ctx.Selected()) {
		return Inert(), nil
	}

	deps := make(Deps, len(s.Dependencies))
	for _, dep := range s.Dependencies {
		a := built[dep]
		if !a.Active() {
			return Inert(), nil
		}
		deps[dep] = a
	}

	if s.New == nil {
		return Inert(), nil
	}
	return s.New(opts, deps)
}
