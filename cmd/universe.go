package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cottand/typex/internal/log"
	"github.com/cottand/typex/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Universe is the contents of a universe file: the type variables, NewTypes and classes
// that expressions on the command line may refer to, and the ABC registrations between them.
// Type expressions inside it are written as forward references and may refer to anything
// declared earlier in the file
type Universe struct {
	TypeVars      []TypeVarDecl      `yaml:"typevars"`
	NewTypes      []NewTypeDecl      `yaml:"newtypes"`
	Classes       []ClassDecl        `yaml:"classes"`
	NamedTuples   []NamedTupleDecl   `yaml:"namedtuples"`
	Registrations []RegistrationDecl `yaml:"registrations"`
	Aliases       map[string]string  `yaml:"aliases"`
}

type TypeVarDecl struct {
	Name        string   `yaml:"name"`
	Constraints []string `yaml:"constraints"`
	Bound       string   `yaml:"bound"`
	// Variance is one of invariant, covariant or contravariant
	Variance string `yaml:"variance"`
}

type NewTypeDecl struct {
	Name      string `yaml:"name"`
	Supertype string `yaml:"supertype"`
}

type ClassDecl struct {
	Name     string   `yaml:"name"`
	Module   string   `yaml:"module"`
	Bases    []string `yaml:"bases"`
	Methods  []string `yaml:"methods"`
	Abstract []string `yaml:"abstract"`
	Disabled []string `yaml:"disabled"`
}

// NamedTupleDecl fields are single entry maps, like {name: str}, to keep their order
type NamedTupleDecl struct {
	Name   string              `yaml:"name"`
	Module string              `yaml:"module"`
	Fields []map[string]string `yaml:"fields"`
}

type RegistrationDecl struct {
	ABC   string `yaml:"abc"`
	Class string `yaml:"class"`
}

// DecodeUniverse reads a universe file. Unknown keys are an error
func DecodeUniverse(r io.Reader) (*Universe, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var u Universe
	if err := decoder.Decode(&u); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "could not decode universe")
	}
	return &u, nil
}

// Declare creates everything u describes in ctx, in order: type variables, NewTypes,
// classes, named tuples, registrations and aliases. The returned namespace binds every declared name
func (u *Universe) Declare(ctx *types.TypeCtx) (types.Namespace, error) {
	d := universeDeclarer{ctx: ctx, ns: types.Namespace{}}
	for _, tv := range u.TypeVars {
		if err := d.typeVar(tv); err != nil {
			return nil, errors.Wrapf(err, "type variable %s", tv.Name)
		}
	}
	for _, nt := range u.NewTypes {
		if err := d.newType(nt); err != nil {
			return nil, errors.Wrapf(err, "NewType %s", nt.Name)
		}
	}
	for _, cls := range u.Classes {
		if err := d.class(cls); err != nil {
			return nil, errors.Wrapf(err, "class %s", cls.Name)
		}
	}
	for _, nt := range u.NamedTuples {
		if err := d.namedTuple(nt); err != nil {
			return nil, errors.Wrapf(err, "named tuple %s", nt.Name)
		}
	}
	for _, reg := range u.Registrations {
		if err := d.register(reg); err != nil {
			return nil, errors.Wrapf(err, "registering %s on %s", reg.Class, reg.ABC)
		}
	}
	for name, src := range u.Aliases {
		ref, err := ctx.ForwardRef(src)
		if err != nil {
			return nil, errors.Wrapf(err, "alias %s", name)
		}
		// aliases stay lazy so they may refer to each other in any order
		d.ns[name] = ref
	}
	return d.ns, nil
}

type universeDeclarer struct {
	ctx *types.TypeCtx
	ns  types.Namespace
}

func (d universeDeclarer) eval(src string) (types.Expr, error) {
	ref, err := d.ctx.ForwardRef(src)
	if err != nil {
		return nil, err
	}
	return d.ctx.Resolve(ref, d.ns)
}

func (d universeDeclarer) evalAll(srcs []string) ([]types.Expr, error) {
	exprs := make([]types.Expr, len(srcs))
	for i, src := range srcs {
		var err error
		if exprs[i], err = d.eval(src); err != nil {
			return nil, err
		}
	}
	return exprs, nil
}

func (d universeDeclarer) typeVar(decl TypeVarDecl) error {
	var opts []types.TypeVarOption
	if len(decl.Constraints) > 0 {
		constraints, err := d.evalAll(decl.Constraints)
		if err != nil {
			return err
		}
		opts = append(opts, types.WithConstraints(constraints...))
	}
	if decl.Bound != "" {
		bound, err := d.eval(decl.Bound)
		if err != nil {
			return err
		}
		opts = append(opts, types.WithBound(bound))
	}
	switch decl.Variance {
	case "", "invariant":
	case "covariant":
		opts = append(opts, types.Covariantly())
	case "contravariant":
		opts = append(opts, types.Contravariantly())
	default:
		return fmt.Errorf("unknown variance %q", decl.Variance)
	}
	tv, err := d.ctx.NewTypeVar(decl.Name, opts...)
	if err != nil {
		return err
	}
	d.ns[decl.Name] = tv
	return nil
}

func (d universeDeclarer) newType(decl NewTypeDecl) error {
	super, err := d.eval(decl.Supertype)
	if err != nil {
		return err
	}
	token, err := d.ctx.NewType(decl.Name, super)
	if err != nil {
		return err
	}
	d.ns[decl.Name] = token
	return nil
}

func (d universeDeclarer) class(decl ClassDecl) error {
	bases, err := d.evalAll(decl.Bases)
	if err != nil {
		return err
	}
	cls, err := d.ctx.DeclareClass(types.ClassSpec{
		Name:            decl.Name,
		Module:          decl.Module,
		Bases:           bases,
		Methods:         decl.Methods,
		AbstractMethods: decl.Abstract,
		DisabledMethods: decl.Disabled,
	})
	if err != nil {
		return err
	}
	d.ns[decl.Name] = cls
	return nil
}

func (d universeDeclarer) namedTuple(decl NamedTupleDecl) error {
	fields := make([]types.Field, 0, len(decl.Fields))
	for _, entry := range decl.Fields {
		if len(entry) != 1 {
			return fmt.Errorf("fields must be single entry maps, got %v", entry)
		}
		for name, src := range entry {
			typ, err := d.eval(src)
			if err != nil {
				return errors.Wrapf(err, "field %s", name)
			}
			fields = append(fields, types.Field{Name: name, Type: typ})
		}
	}
	cls, err := d.ctx.NamedTuple(types.NamedTupleSpec{Name: decl.Name, Module: decl.Module, Fields: fields})
	if err != nil {
		return err
	}
	d.ns[decl.Name] = cls
	return nil
}

func (d universeDeclarer) register(decl RegistrationDecl) error {
	abc, err := d.eval(decl.ABC)
	if err != nil {
		return err
	}
	target, err := d.eval(decl.Class)
	if err != nil {
		return err
	}
	cls, ok := target.(*types.Class)
	if !ok {
		return fmt.Errorf("only classes can be registered, got %s", target)
	}
	return d.ctx.Register(abc, cls)
}

// loadUniverse builds a context and declares the universe at path in it.
// An empty path gives the bare catalog
func loadUniverse(path string, opts ...types.Option) (*types.TypeCtx, types.Namespace, error) {
	ctx := types.NewTypeCtx(opts...)
	if path == "" {
		return ctx, types.Namespace{}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("could not open universe: %w", err)
	}
	defer f.Close()

	u, err := DecodeUniverse(f)
	if err != nil {
		return nil, nil, err
	}
	ns, err := u.Declare(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.DefaultLogger.Debug("declared universe", "section", "cli", "path", path, "names", len(ns))
	return ctx, ns, nil
}
