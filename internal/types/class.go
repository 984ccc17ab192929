package types

import "github.com/quill-lang/quillc/internal/arena"

// ExprRef is a non-owning reference into the AST's expression arena,
// opaque to this package (types cannot import ast without creating an
// import cycle) but identical in representation to ast.Handle.
type ExprRef = arena.Handle

// Field is one member of a class's memory layout (spec §3.1/§3.4), grounded
// on the original implementation's Field (name, type, class-relative index,
// owning class, optional default value expression handle, byte offset,
// trailing padding, and the index once padding fields are spliced in).
type Field struct {
	Name         string
	Type         Handle
	Index        int // declaration-order index, before padding is spliced in
	DefaultValue ExprRef // reference into the AST's expression arena, or 0
	Offset       int // byte offset, computed by Layout()
	Padding      int // bytes of trailing padding, computed by Layout()
	PaddedIndex  int // index once synthetic padding fields are counted
}

// MethodModifier flags a method's static/virtual/device-only nature and,
// for shader entry points, which shader stage it implements.
type MethodModifier uint32

const (
	ModStatic MethodModifier = 1 << iota
	ModVirtual
	ModDeviceOnly
	ModConstructor
	ModDestructor
	ModNative
)

// ShaderStage tags a Vertex/Fragment/Compute entry-point method; zero means
// "not a shader entry point."
type ShaderStage int

const (
	ShaderStageNone ShaderStage = iota
	ShaderStageVertex
	ShaderStageFragment
	ShaderStageCompute
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	case ShaderStageCompute:
		return "compute"
	default:
		return "none"
	}
}

// FormalArg is one entry of a method's formal argument list: a name, a
// type, and whether the caller may omit it in favor of DefaultValue.
type FormalArg struct {
	Name         string
	Type         Handle
	HasDefault   bool
	DefaultValue ExprRef // reference into the AST's expression arena, or 0
}

// Method is a class member function. Stmts holds the AST handle of its
// body (arena index into the statement arena); it is 0 for declarations
// still awaiting their body (forward methods), matching the lazy
// class-body resolution rule of the Semantic Pass.
type Method struct {
	Name          string
	Modifiers     MethodModifier
	ReturnType    Handle
	FormalArgs    []FormalArg
	Stmts         ExprRef // reference into the AST's statement arena, 0 if unresolved/forward
	ShaderStage   ShaderStage
	WorkgroupSize [3]int
	Index         int // method table slot, assigned on AddMethod
}

func (m Method) IsStatic() bool      { return m.Modifiers&ModStatic != 0 }
func (m Method) IsVirtual() bool     { return m.Modifiers&ModVirtual != 0 }
func (m Method) IsDeviceOnly() bool  { return m.Modifiers&ModDeviceOnly != 0 }
func (m Method) IsConstructor() bool { return m.Modifiers&ModConstructor != 0 }
func (m Method) IsDestructor() bool  { return m.Modifiers&ModDestructor != 0 }
func (m Method) IsNative() bool      { return m.Modifiers&ModNative != 0 }

// EnumValue is one member of an enum: a name and its constant ordinal.
type EnumValue struct {
	Name  string
	Value int
}

// EnumInfo backs a KindEnum Type.
type EnumInfo struct {
	Name   string
	Values []EnumValue
}

// FindValue returns the ordinal for name and reports whether it exists.
func (e *EnumInfo) FindValue(name string) (int, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// ClassInfo backs both KindClass and KindClassTemplate Types: a template
// definition and each of its instantiations share the same shape, the
// instantiation merely substituting concrete types for TemplateArgs.
type ClassInfo struct {
	Name   string
	Parent Handle // 0 if no parent

	Fields  []Field
	Methods []Method
	Nested  map[string]Handle // nested enum/class types declared in this body

	// Populated only for KindClassTemplate:
	TemplateArgs []string         // formal template argument names
	Instances    map[string]Handle // instantiation cache key -> instance Handle

	// Populated only on instances produced via GetClassTemplateInstance:
	Template     Handle   // the originating ClassTemplate Handle, or 0
	TemplateArgValues []Handle // concrete args this instance was built from

	Layout    MemoryLayout
	resolved  bool // true once the Semantic Pass has finished the class body
	SizeBytes int  // computed by Layout(), 0 until then
	AlignBytes int
}

// AddField appends a field at the next declaration index.
func (c *ClassInfo) AddField(name string, typ Handle, defaultValue ExprRef) *Field {
	f := Field{Name: name, Type: typ, Index: len(c.Fields), DefaultValue: defaultValue}
	c.Fields = append(c.Fields, f)
	return &c.Fields[len(c.Fields)-1]
}

// FindField searches this class, then its parent chain.
func (c *ClassInfo) FindField(tbl *Table, name string) (*Field, bool) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	if c.Parent != 0 {
		if parent := tbl.Get(c.Parent).class; parent != nil {
			return parent.FindField(tbl, name)
		}
	}
	return nil, false
}

// AddMethod appends a method, assigning it the next method-table slot.
func (c *ClassInfo) AddMethod(m Method) *Method {
	m.Index = len(c.Methods)
	c.Methods = append(c.Methods, m)
	return &c.Methods[len(c.Methods)-1]
}

// FindMethods returns every overload named name declared directly on this
// class (not its parents); overload resolution walks the parent chain
// itself so it can prefer the most-derived declaration-order match.
func (c *ClassInfo) FindMethods(name string) []*Method {
	var out []*Method
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			out = append(out, &c.Methods[i])
		}
	}
	return out
}

// IsResolved reports whether the Semantic Pass has finished this class's body.
func (c *ClassInfo) IsResolved() bool { return c.resolved }

// MarkResolved flags the class body as fully resolved.
func (c *ClassInfo) MarkResolved() { c.resolved = true }

// NewClass interns a brand-new (non-template) class type with an empty body,
// ready for the Semantic Pass to populate via AddField/AddMethod.
func (t *Table) NewClass(name string, parent Handle) Handle {
	info := &ClassInfo{Name: name, Parent: parent, Nested: make(map[string]Handle)}
	return t.arena.Put(Type{kind: KindClass, class: info})
}

// NewClassTemplate interns a class template declaration with its formal
// template argument names, ready to be instantiated via
// GetClassTemplateInstance.
func (t *Table) NewClassTemplate(name string, templateArgs []string) Handle {
	info := &ClassInfo{
		Name:         name,
		Nested:       make(map[string]Handle),
		TemplateArgs: templateArgs,
		Instances:    make(map[string]Handle),
	}
	return t.arena.Put(Type{kind: KindClassTemplate, class: info})
}

// NewEnum interns a new enum type.
func (t *Table) NewEnum(name string, values []EnumValue) Handle {
	return t.arena.Put(Type{kind: KindEnum, enum: &EnumInfo{Name: name, Values: values}})
}

// GetClassTemplateInstance instantiates template with the given concrete
// type arguments, deduplicating by argument identity (Handle sequences are
// already canonical, so a string key built from their numeric values is
// stable). A freshly created instance is enqueued on the instance queue for
// the driver to resolve its body via PopInstanceQueue.
func (t *Table) GetClassTemplateInstance(template Handle, args []Handle) Handle {
	tmplType := t.Get(template)
	tmplInfo := tmplType.class
	key := instanceKey(args)
	if h, ok := tmplInfo.Instances[key]; ok {
		return h
	}
	instInfo := &ClassInfo{
		Name:              tmplInfo.Name,
		Parent:            tmplInfo.Parent,
		Nested:            make(map[string]Handle),
		Template:          template,
		TemplateArgValues: append([]Handle(nil), args...),
	}
	h := t.arena.Put(Type{kind: KindClass, class: instInfo})
	tmplInfo.Instances[key] = h
	t.instanceQueue = append(t.instanceQueue, h)
	return h
}

func instanceKey(args []Handle) string {
	key := make([]byte, 0, len(args)*4)
	for _, a := range args {
		key = append(key, byte(a), byte(a>>8), byte(a>>16), byte(a>>24))
	}
	return string(key)
}

// PopInstanceQueue drains and returns every class-template instance created
// since the last call, so the driver can run lazy class-body resolution on
// each newly discovered instantiation (spec §4.4.9: "instantiating a class
// template enqueues the instance; resolution happens after the enclosing
// pass finishes its current statement list, not inline").
func (t *Table) PopInstanceQueue() []Handle {
	out := t.instanceQueue
	t.instanceQueue = nil
	return out
}

// Class returns the ClassInfo backing a KindClass or KindClassTemplate Type,
// or nil for any other kind.
func (t *Table) Class(h Handle) *ClassInfo {
	return t.Get(h).class
}

// Enum returns the EnumInfo backing a KindEnum Type, or nil otherwise.
func (t *Table) Enum(h Handle) *EnumInfo {
	return t.Get(h).enum
}
