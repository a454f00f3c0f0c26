package parser

import (
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// LogFile is the document an event source produces for one fight of one player.
type LogFile struct {
	Fight     Fight         `json:"fight"`
	Combatant CombatantInfo `json:"combatant"`
	Events    []*Event      `json:"events"`
}

func ReadLogFile(r io.Reader) (*LogFile, error) {
	var lf LogFile
	err := jsoniter.NewDecoder(r).Decode(&lf)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &lf, nil
}

// Parser owns the modules of one replay.
type Parser struct {
	ctx     *Context
	modules []Module
	index   map[string]Analyzer

	dispatcher *Dispatcher
}

func New(fight Fight, info CombatantInfo, specs []Spec) (*Parser, error) {
	reg, err := NewRegistry(specs...)
	if err != nil {
		return nil, err
	}

	ctx := NewContext(fight, NewCombatant(info, fight.Start))

	modules, err := reg.Build(Options{Ctx: ctx})
	if err != nil {
		return nil, err
	}

	p := &Parser{
		ctx:     ctx,
		modules: modules,
		index:   make(map[string]Analyzer, len(modules)),
	}
	for _, m := range modules {
		p.index[m.Name] = m.Analyzer
	}
	p.dispatcher = NewDispatcher(ctx, modules)

	return p, nil
}

func (p *Parser) Context() *Context {
	return p.ctx
}

func (p *Parser) SetProgress(fn func(done, total int)) {
	p.dispatcher.Progress = fn
}

func (p *Parser) Run(log *Log) error {
	return p.dispatcher.Run(log)
}

// Module returns the named module, inert ones included.
func (p *Parser) Module(name string) (Analyzer, bool) {
	a, ok := p.index[name]
	return a, ok
}

func (p *Parser) Modules() []Module {
	return p.modules
}

// Statistics collects the boxes of every active reporter, ordered by
// position then module name.
func (p *Parser) Statistics() []*Statistic {
	var r []*Statistic
	for _, m := range p.modules {
		if !m.Analyzer.Active() {
			continue
		}
		rep, ok := m.Analyzer.(Reporter)
		if !ok {
			continue
		}
		st := rep.Statistic()
		if st == nil {
			continue
		}
		if st.Module == "" {
			st.Module = m.Name
		}
		r = append(r, st)
	}

	sort.SliceStable(
		r,
		func(i, k int) bool {
			if r[i].Position != r[k].Position {
				return r[i].Position < r[k].Position
			}
			return r[i].Module < r[k].Module
		},
	)

	return r
}

func (p *Parser) Suggestions() []Suggestion {
	var r []Suggestion
	for _, m := range p.modules {
		if !m.Analyzer.Active() {
			continue
		}
		sg, ok := m.Analyzer.(Suggester)
		if !ok {
			continue
		}
		for _, s := range sg.Suggestions() {
			if s.Module == "" {
				s.Module = m.Name
			}
			r = append(r, s)
		}
	}
	return r
}
