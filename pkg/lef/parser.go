package lef

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Config controls how the geometry library is read.
type Config struct {
	// Prefix selects the macros kept in the catalog. Only macros whose
	// name starts with this prefix are recorded; everything else in the
	// library is skipped.
	Prefix string

	// ScalePerMicron is the integer grid resolution. LEF dimensions are
	// decimal microns; they are multiplied by this factor and rounded so
	// all downstream arithmetic stays integral.
	ScalePerMicron int

	// Warnings receives non-fatal diagnostics (malformed section
	// terminators and the like). Defaults to os.Stderr.
	Warnings io.Writer
}

// DefaultConfig returns a Config with the defaults used by the CLI:
// hundredths of a micron, diagnostics to stderr.
func DefaultConfig() *Config {
	return &Config{
		Prefix:         "",
		ScalePerMicron: 100,
		Warnings:       os.Stderr,
	}
}

// Parser reads LEF geometry libraries into a Catalog.
type Parser struct {
	cfg *Config
}

// NewParser creates a parser with the given configuration. A nil config
// gets the defaults.
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ScalePerMicron <= 0 {
		cfg.ScalePerMicron = 100
	}
	if cfg.Warnings == nil {
		cfg.Warnings = os.Stderr
	}
	return &Parser{cfg: cfg}
}

// ParseFile reads a geometry library from a file path.
func (p *Parser) ParseFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lef: failed to open library: %w", err)
	}
	defer file.Close()

	return p.Parse(path, file)
}

// ParseString reads a geometry library from a string.
func (p *Parser) ParseString(input string) (*Catalog, error) {
	return p.Parse("", strings.NewReader(input))
}

// Parse reads a geometry library from a reader. Only macro geometry is
// interpreted; library sections (layers, vias, sites, units, spacing)
// are recognized by keyword and skipped verbatim to their terminator.
func (p *Parser) Parse(filename string, r io.Reader) (*Catalog, error) {
	lx, err := LEFLexer.Lex(filename, r)
	if err != nil {
		return nil, fmt.Errorf("lef: lexer error: %w", err)
	}
	symbols := LEFLexer.Symbols()
	toks, err := lexer.Upgrade(lx, symbols["Comment"], symbols["Whitespace"])
	if err != nil {
		return nil, fmt.Errorf("lef: lexer error: %w", err)
	}

	run := &parseRun{cfg: p.cfg, toks: toks}
	return run.library()
}

// parseRun carries the token stream through one library parse. Nothing
// here outlives the call; each macro is built in its own bounded scope
// and appended to the catalog.
type parseRun struct {
	cfg  *Config
	toks *lexer.PeekingLexer
}

func (r *parseRun) library() (*Catalog, error) {
	cat := &Catalog{}
	for {
		tok := r.toks.Next()
		if tok.EOF() {
			break
		}
		switch strings.ToUpper(tok.Value) {
		case "MACRO":
			name := r.toks.Next()
			if name.EOF() {
				r.warnf("macro declaration at end of library has no name")
				break
			}
			macro := r.macro(name.Value)
			if strings.HasPrefix(macro.Name, r.cfg.Prefix) {
				cat.Macros = append(cat.Macros, macro)
			}
		case "LAYER", "VIA", "VIARULE", "SITE":
			name := r.toks.Next()
			if name.EOF() {
				r.warnf("%s section at end of library has no name", tok.Value)
				break
			}
			r.skipNamedSection(name.Value)
		case "UNITS", "SPACING", "PROPERTYDEFINITIONS":
			// These close with "END <keyword>" rather than a name.
			r.skipNamedSection(tok.Value)
		case "END":
			next := r.toks.Peek()
			if !next.EOF() && strings.ToUpper(next.Value) == "LIBRARY" {
				r.toks.Next()
				if len(cat.Macros) == 0 {
					return nil, ErrEmptyCatalog
				}
				return cat, nil
			}
			r.warnf("stray END near %q", next.Value)
		default:
			// Library-level statement we do not model (VERSION,
			// NAMESCASESENSITIVE, DIVIDERCHAR, ...): skip to its
			// semicolon.
			r.skipStatement()
		}
	}
	if len(cat.Macros) == 0 {
		return nil, ErrEmptyCatalog
	}
	return cat, nil
}

// macro parses one MACRO block. Pin and obstruction sub-sections are
// skipped without interpretation; only symmetry, origin and size are
// recorded. A terminator that names a different macro is reported as a
// warning and the macro is closed anyway.
func (r *parseRun) macro(name string) Macro {
	m := Macro{Name: name}
	for {
		tok := r.toks.Next()
		if tok.EOF() {
			r.warnf("macro %s not terminated before end of library", name)
			return m
		}
		switch strings.ToUpper(tok.Value) {
		case "END":
			closer := r.toks.Next()
			if closer.EOF() {
				r.warnf("macro %s terminator has no name", name)
				return m
			}
			if closer.Value != name {
				r.warnf("macro %s closed by END %s", name, closer.Value)
			}
			return m
		case "ORIGIN":
			m.OriginX = r.scaledNumber(name, "ORIGIN")
			m.OriginY = r.scaledNumber(name, "ORIGIN")
			r.skipStatement()
		case "SIZE":
			m.Width = r.scaledNumber(name, "SIZE")
			by := r.toks.Next()
			if strings.ToUpper(by.Value) != "BY" {
				r.warnf("macro %s: SIZE missing BY keyword", name)
			}
			m.Height = r.scaledNumber(name, "SIZE")
			r.skipStatement()
		case "SYMMETRY":
			for {
				sym := r.toks.Next()
				if sym.EOF() || sym.Value == ";" {
					break
				}
				m.Symmetry = append(m.Symmetry, sym.Value)
			}
		case "PIN":
			pin := r.toks.Next()
			if pin.EOF() {
				r.warnf("macro %s: PIN at end of library has no name", name)
				return m
			}
			r.skipNamedSection(pin.Value)
		case "OBS":
			r.skipObstruction()
		default:
			// CLASS, FOREIGN, SITE and anything else we do not need.
			r.skipStatement()
		}
	}
}

// scaledNumber reads one number token and scales it onto the integer
// grid with round-half-away rounding.
func (r *parseRun) scaledNumber(macro, stmt string) int {
	tok := r.toks.Next()
	if tok.EOF() {
		r.warnf("macro %s: %s truncated at end of library", macro, stmt)
		return 0
	}
	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		r.warnf("macro %s: %s has non-numeric value %q", macro, stmt, tok.Value)
		return 0
	}
	return int(math.Round(v * float64(r.cfg.ScalePerMicron)))
}

// skipStatement consumes tokens up to and including the next semicolon.
func (r *parseRun) skipStatement() {
	for {
		tok := r.toks.Next()
		if tok.EOF() || tok.Value == ";" {
			return
		}
	}
}

// skipNamedSection consumes tokens until "END <name>". Bare ENDs (pin
// PORT blocks close with an unnamed END) do not terminate the section,
// so nested blocks pass through untouched.
func (r *parseRun) skipNamedSection(name string) {
	for {
		tok := r.toks.Next()
		if tok.EOF() {
			r.warnf("section %s not terminated before end of library", name)
			return
		}
		if strings.ToUpper(tok.Value) != "END" {
			continue
		}
		next := r.toks.Peek()
		if !next.EOF() && next.Value == name {
			r.toks.Next()
			return
		}
	}
}

// skipObstruction consumes an OBS block, which closes with a bare END.
func (r *parseRun) skipObstruction() {
	for {
		tok := r.toks.Next()
		if tok.EOF() {
			r.warnf("OBS block not terminated before end of library")
			return
		}
		if strings.ToUpper(tok.Value) == "END" {
			return
		}
	}
}

func (r *parseRun) warnf(format string, args ...any) {
	fmt.Fprintf(r.cfg.Warnings, "lef: "+format+"\n", args...)
}
