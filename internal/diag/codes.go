package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Сканер (parse faults): файл пропускается, прогон продолжается
	ScanInfo                     Code = 1000
	ScanUnterminatedString       Code = 1001
	ScanUnterminatedBlockComment Code = 1002
	ScanUnterminatedKVBlock      Code = 1003
	ScanUnterminatedChar         Code = 1004

	// Consistency faults: recoverable, the run self-heals
	RefInfo           Code = 2000
	RefCounterBehind  Code = 2001
	RefDuplicate      Code = 2002
	RefDualPlacement  Code = 2003
	RefMalformedKey   Code = 2004
	RefOutOfRange     Code = 2005
	RefExhausted      Code = 2006
	RefUnpatchable    Code = 2007
	RefMultipleKeys   Code = 2008

	// I/O faults
	IOInfo      Code = 3000
	IOReadFile  Code = 3001
	IOWriteFile Code = 3002

	// Cache faults: the cache is treated as absent
	CacheInfo    Code = 4000
	CacheCorrupt Code = 4001
	CacheSchema  Code = 4002
	CacheSave    Code = 4003

	// Findings
	FindInfo     Code = 5000
	FindMissing  Code = 5001
	FindInserted Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:                  "Unknown error",
	ScanInfo:                     "Scanner information",
	ScanUnterminatedString:       "Unterminated string literal",
	ScanUnterminatedBlockComment: "Unterminated block comment",
	ScanUnterminatedKVBlock:      "Unterminated key-value block",
	ScanUnterminatedChar:         "Unterminated character literal",
	RefInfo:                      "Reference information",
	RefCounterBehind:             "Reference counter behind observed identifier",
	RefDuplicate:                 "Duplicate reference identifier",
	RefDualPlacement:             "Reference in message text ignored in structured mode",
	RefMalformedKey:              "Malformed reference key",
	RefOutOfRange:                "Reference identifier out of range",
	RefExhausted:                 "Reference identifiers exhausted",
	RefUnpatchable:               "Reference cannot be inserted",
	RefMultipleKeys:              "Multiple reference keys",
	IOInfo:                       "I/O information",
	IOReadFile:                   "Failed to read file",
	IOWriteFile:                  "Failed to write file",
	CacheInfo:                    "Cache information",
	CacheCorrupt:                 "Lock file is corrupt",
	CacheSchema:                  "Lock file schema mismatch",
	CacheSave:                    "Failed to save lock file",
	FindInfo:                     "Finding",
	FindMissing:                  "Missing reference",
	FindInserted:                 "Reference inserted",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REF%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CCH%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("FND%04d", ic)
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

// IsParseFault reports whether the code aborts scanning of a single file.
func (c Code) IsParseFault() bool {
	return c > ScanInfo && c < RefInfo
}
