// Package validator implements the MITS 5.0 fee-offer compliance engine: a
// hardened XML parse step followed by an ordered pipeline of rule validators
// producing one merged ValidationResult.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/agentflare-ai/go-xmldom"
	"go.opentelemetry.io/otel"
)

// DefaultMaxDepth bounds element nesting to keep adversarial documents from
// exhausting the stack during traversal.
const DefaultMaxDepth = 100

var validatorPool = sync.Pool{
	New: func() any {
		return &Validator{}
	},
}

// illegalXMLChars are code points XML 1.0 forbids even when escaped.
var illegalXMLChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x84\x86-\x9f\x{FDD0}-\x{FDEF}]`)

// Config controls validator behavior.
type Config struct {
	// SourceName is an optional document name for log records.
	SourceName string

	// MaxDepth overrides the element nesting bound. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Basic restricts validation to well-formedness: sanitize, parse, and
	// stop. Used by callers that only need a parse check.
	Basic bool

	// Logger receives per-phase debug records. Nil means slog.Default().
	Logger *slog.Logger
}

// Validator runs the MITS rule pipeline over XML documents.
type Validator struct {
	config Config
}

// New creates a Validator. Without a Config the defaults apply.
func New(cfg ...Config) *Validator {
	c := Config{}
	for _, x := range cfg {
		c = x
	}
	return &Validator{config: c}
}

// Validate runs a pooled Validator with default configuration over the
// document text.
func Validate(ctx context.Context, xmlText string) *Result {
	v := validatorPool.Get().(*Validator)
	defer validatorPool.Put(v)
	v.config = Config{}
	return v.ValidateString(ctx, xmlText)
}

// ValidateString validates one document. It always returns a well-formed
// Result; parse and container failures terminate the pipeline early, every
// other finding accumulates.
func (v *Validator) ValidateString(ctx context.Context, xmlText string) *Result {
	tr := otel.Tracer("validator")
	ctx, span := tr.Start(ctx, "validator.validate")
	defer span.End()

	logger := v.config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	result := NewResult()

	doc, ok := v.parse(ctx, xmlText, result)
	if !ok {
		logger.Debug("validation stopped at parse phase",
			"source", v.config.SourceName, "errors", len(result.Errors))
		return result
	}
	if v.config.Basic {
		return result
	}

	phases := []struct {
		name     string
		rules    []Rule
		terminal bool
	}{
		{"container", containerRules(), true},
		{"structure", structureRules(), false},
		{"classes", classRules(), false},
		{"items", itemRules(), false},
		{"alignment", alignmentRules(), false},
		{"integrity", integrityRules(), false},
		{"quality", qualityRules(), false},
	}

	for _, phase := range phases {
		_, phaseSpan := tr.Start(ctx, "validator.phase."+phase.name)
		for _, rule := range phase.rules {
			result.Merge(rule.Validate(doc))
		}
		phaseSpan.End()

		if phase.terminal && !result.Valid {
			logger.Debug("terminal phase failed, stopping pipeline",
				"source", v.config.SourceName, "phase", phase.name, "errors", len(result.Errors))
			return result
		}
	}

	logger.Debug("validation complete",
		"source", v.config.SourceName,
		"valid", result.Valid,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"info", len(result.Info))

	return result
}

// parse sanitizes and parses the document text. On failure it records a
// single fatal error and reports false. The sanitize step strips a UTF-8
// BOM, rejects XML-illegal control characters, and refuses DTD and entity
// declarations outright so entity expansion never reaches the tree.
func (v *Validator) parse(ctx context.Context, xmlText string, result *Result) (*Document, bool) {
	tr := otel.Tracer("validator")
	_, span := tr.Start(ctx, "validator.parse")
	defer span.End()

	text := strings.TrimSpace(strings.TrimPrefix(xmlText, "\uFEFF"))
	if text == "" {
		result.AddError("xml_wellformed", "Document is empty", "")
		return nil, false
	}

	if loc := illegalXMLChars.FindStringIndex(text); loc != nil {
		result.AddError("xml_wellformed",
			fmt.Sprintf("Document contains an illegal control character at offset %d", loc[0]), "")
		return nil, false
	}

	upper := strings.ToUpper(text)
	if strings.Contains(upper, "<!DOCTYPE") || strings.Contains(upper, "<!ENTITY") {
		result.AddError("xml_wellformed",
			"Document type declarations and entity definitions are not accepted", "")
		return nil, false
	}

	decoder := xmldom.NewDecoderFromBytes([]byte(text))
	dom, err := decoder.Decode()
	if err != nil {
		result.AddError("xml_wellformed",
			fmt.Sprintf("XML is not well-formed: %v", err), "")
		return nil, false
	}
	root := dom.DocumentElement()
	if root == nil {
		result.AddError("xml_wellformed", "Document has no root element", "")
		return nil, false
	}

	maxDepth := v.config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if depth := elementDepth(root); depth > maxDepth {
		result.AddError("xml_wellformed",
			fmt.Sprintf("Document nesting depth %d exceeds the maximum of %d", depth, maxDepth), "")
		return nil, false
	}

	return newDocument(root), true
}

// elementDepth returns the deepest element nesting level under el, counting
// el itself as level 1.
func elementDepth(el xmldom.Element) int {
	deepest := 0
	for _, child := range childElements(el) {
		if d := elementDepth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
