package declconf

import (
	"errors"
	"io"

	"github.com/declconf/declconf/handlers"
)

// Dumps serializes the instance in the named format. Unknown formats fail
// with the no_handler code; format handlers are selected at call time, not
// import time.
func (inst *Instance) Dumps(format string, opts ...handlers.Option) ([]byte, error) {
	if inst == nil || inst.t == nil {
		return nil, issuef("/", CodeNotConfigInstance, "")
	}
	h, err := handlers.Lookup(format)
	if err != nil {
		return nil, handlerIssue(format, err)
	}
	m, err := ToMap(inst)
	if err != nil {
		return nil, err
	}
	data, err := h.Marshal(m, inst.formatDefaults(format, opts)...)
	if err != nil {
		return nil, handlerIssue(format, err)
	}
	return data, nil
}

// Dump serializes the instance to a stream.
func (inst *Instance) Dump(format string, w io.Writer, opts ...handlers.Option) error {
	data, err := inst.Dumps(format, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Loads builds an instance from serialized content in the named format.
func (t *Type) Loads(format string, data []byte, opts ...LoadOption) (*Instance, error) {
	if t == nil {
		return nil, issuef("/", CodeNotConfigType, "")
	}
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	h, err := handlers.Lookup(format)
	if err != nil {
		return nil, handlerIssue(format, err)
	}
	m, err := h.Unmarshal(data, t.loadDefaults(format, cfg.hopts)...)
	if err != nil {
		return nil, handlerIssue(format, err)
	}
	return FromMap(t, m, opts...)
}

// Load builds an instance from a stream in the named format.
func (t *Type) Load(format string, r io.Reader, opts ...LoadOption) (*Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, issuef("/", CodeCodec, "reading %s stream: %v", format, err)
	}
	return t.Loads(format, data, opts...)
}

// formatDefaults prepends the type-derived defaults (XML root element and
// INI root section take the type name) so explicit options still win.
func (inst *Instance) formatDefaults(format string, opts []handlers.Option) []handlers.Option {
	return inst.t.loadDefaults(format, opts)
}

func (t *Type) loadDefaults(format string, opts []handlers.Option) []handlers.Option {
	switch format {
	case "xml":
		return append([]handlers.Option{handlers.Root(t.name)}, opts...)
	case "ini":
		return append([]handlers.Option{handlers.RootSection(t.name)}, opts...)
	default:
		return opts
	}
}

func handlerIssue(format string, err error) error {
	code := CodeCodec
	switch {
	case errors.Is(err, handlers.ErrNoHandler), errors.Is(err, handlers.ErrNoCodec):
		code = CodeNoHandler
	case errors.Is(err, handlers.ErrINIArrayOfMaps), errors.Is(err, handlers.ErrXMLUntypedLeaf):
		code = CodeUnsupportedFormat
	}
	return Issues{{Path: "/", Code: code, Message: err.Error(), Cause: err,
		Params: map[string]any{"format": format}}}
}

// Per-format conveniences. Each pair mirrors Dumps/Loads for one format.

// DumpsJSON serializes to JSON.
func (inst *Instance) DumpsJSON(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("json", opts...)
}

// DumpJSON serializes to a JSON stream.
func (inst *Instance) DumpJSON(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("json", w, opts...)
}

// LoadsJSON builds an instance from JSON content.
func (t *Type) LoadsJSON(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("json", data, opts...)
}

// LoadJSON builds an instance from a JSON stream.
func (t *Type) LoadJSON(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("json", r, opts...)
}

// DumpsYAML serializes to YAML.
func (inst *Instance) DumpsYAML(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("yaml", opts...)
}

// DumpYAML serializes to a YAML stream.
func (inst *Instance) DumpYAML(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("yaml", w, opts...)
}

// LoadsYAML builds an instance from YAML content.
func (t *Type) LoadsYAML(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("yaml", data, opts...)
}

// LoadYAML builds an instance from a YAML stream.
func (t *Type) LoadYAML(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("yaml", r, opts...)
}

// DumpsTOML serializes to TOML.
func (inst *Instance) DumpsTOML(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("toml", opts...)
}

// DumpTOML serializes to a TOML stream.
func (inst *Instance) DumpTOML(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("toml", w, opts...)
}

// LoadsTOML builds an instance from TOML content.
func (t *Type) LoadsTOML(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("toml", data, opts...)
}

// LoadTOML builds an instance from a TOML stream.
func (t *Type) LoadTOML(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("toml", r, opts...)
}

// DumpsXML serializes to XML with typed leaf elements.
func (inst *Instance) DumpsXML(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("xml", opts...)
}

// DumpXML serializes to an XML stream.
func (inst *Instance) DumpXML(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("xml", w, opts...)
}

// LoadsXML builds an instance from XML content.
func (t *Type) LoadsXML(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("xml", data, opts...)
}

// LoadXML builds an instance from an XML stream.
func (t *Type) LoadXML(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("xml", r, opts...)
}

// DumpsINI serializes to INI with dotted nested sections.
func (inst *Instance) DumpsINI(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("ini", opts...)
}

// DumpINI serializes to an INI stream.
func (inst *Instance) DumpINI(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("ini", w, opts...)
}

// LoadsINI builds an instance from INI content.
func (t *Type) LoadsINI(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("ini", data, opts...)
}

// LoadINI builds an instance from an INI stream.
func (t *Type) LoadINI(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("ini", r, opts...)
}

// DumpsMsgpack serializes to MessagePack.
func (inst *Instance) DumpsMsgpack(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("msgpack", opts...)
}

// DumpMsgpack serializes to a MessagePack stream.
func (inst *Instance) DumpMsgpack(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("msgpack", w, opts...)
}

// LoadsMsgpack builds an instance from MessagePack content.
func (t *Type) LoadsMsgpack(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("msgpack", data, opts...)
}

// LoadMsgpack builds an instance from a MessagePack stream.
func (t *Type) LoadMsgpack(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("msgpack", r, opts...)
}

// DumpsGob serializes to gob, the Go-native binary form.
func (inst *Instance) DumpsGob(opts ...handlers.Option) ([]byte, error) {
	return inst.Dumps("gob", opts...)
}

// DumpGob serializes to a gob stream.
func (inst *Instance) DumpGob(w io.Writer, opts ...handlers.Option) error {
	return inst.Dump("gob", w, opts...)
}

// LoadsGob builds an instance from gob content.
func (t *Type) LoadsGob(data []byte, opts ...LoadOption) (*Instance, error) {
	return t.Loads("gob", data, opts...)
}

// LoadGob builds an instance from a gob stream.
func (t *Type) LoadGob(r io.Reader, opts ...LoadOption) (*Instance, error) {
	return t.Load("gob", r, opts...)
}
