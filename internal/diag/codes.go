package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// definitions
	DefInfo           Code = 1000
	DefMissingPrefix  Code = 1001
	DefDuplicateName  Code = 1002
	DefEmptyParamName Code = 1003
	DefEmptyType      Code = 1004
	DefDecode         Code = 1005

	// type mapping
	TypInfo                 Code = 2000
	TypUnknown              Code = 2001
	TypUnregisteredCallback Code = 2002
	TypConstantSkipped      Code = 2003
	TypReservedParam        Code = 2004

	// emission
	GenInfo             Code = 3000
	GenDanglingExtra    Code = 3001
	GenDanglingAlias    Code = 3002
	GenDuplicateSymbol  Code = 3003
	GenFormat           Code = 3004
	GenAliasUnreachable Code = 3005
	GenTooManyParams    Code = 3006

	// io
	IOInfo        Code = 4000
	IOWriteFailed Code = 4001
	IOStampStale  Code = 4002

	// project
	PrjInfo            Code = 5000
	PrjManifestInvalid Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:             "unknown error",
	DefInfo:                 "definitions information",
	DefMissingPrefix:        "name lacks the MPI_ prefix",
	DefDuplicateName:        "duplicate definition",
	DefEmptyParamName:       "parameter without a name",
	DefEmptyType:            "empty type reference",
	DefDecode:               "malformed definitions file",
	TypInfo:                 "type mapping information",
	TypUnknown:              "unknown type reference",
	TypUnregisteredCallback: "callback signature is not registered",
	TypConstantSkipped:      "constant type has no value mapping",
	TypReservedParam:        "parameter name is reserved",
	GenInfo:                 "generation information",
	GenDanglingExtra:        "extra accessor target is missing",
	GenDanglingAlias:        "alias target was not emitted",
	GenDuplicateSymbol:      "duplicate generated identifier",
	GenFormat:               "generated source does not format",
	GenAliasUnreachable:     "alias shadows an emitted constant",
	GenTooManyParams:        "too many parameters for a native call",
	IOInfo:                  "io information",
	IOWriteFailed:           "cannot write generated unit",
	IOStampStale:            "generation stamp is stale",
	PrjInfo:                 "project information",
	PrjManifestInvalid:      "invalid mpirt.toml",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DEF%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
