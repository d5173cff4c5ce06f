package declconf

// Package declconf lets programs declare configuration types as ordered
// field tables and derive everything else from the declaration:
//
// - A JSON Schema (draft-07) document via BuildSchema, executable through
//   Validate/ValidateMap
// - Bidirectional conversion between instances and ordered mappings via
//   ToMap/FromMap
// - Serialization to JSON, YAML, TOML, XML, INI, MessagePack, and gob
//   through the handlers registry, with per-format wrappers on Type and
//   Instance
//
// Design policy:
// - Keep only public APIs in the root package; the ordered mapping lives
//   under mapping/, the schema representation under jsonschema/, format
//   codecs under handlers/, and field codec helpers under codec/.
// - Fatal problems return Issues (JSON Pointer path, stable code, message);
//   non-fatal conditions go through the diagnostic logger (SetLogger).
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  srv := declconf.Config("Server").
//      Field("host", declconf.NewVar(declconf.String()).Default("localhost")).
//      Field("port", declconf.NewVar(declconf.Int()).Min(1).Max(65535)).
//      MustBuild()
//
//  inst, err := srv.LoadsYAML(data, declconf.WithValidation())
//  out, err := inst.DumpsJSON(handlers.Indent("  "))
//  schema, err := declconf.BuildSchema(srv)
