// Package prompts holds the instructional prompts handed to the model.
//
// Each prompt is a markdown file under data/ with a YAML front matter block:
//
//	---
//	name: synthese
//	tool: prepare_synthese
//	title: Synthèse de texte
//	lead: Établit un contexte pour réaliser des synthèses de textes.
//	inline: true
//	---
//	prompt body...
//
// The body is kept byte for byte. When inline is set, the tool description
// carries the whole prompt after the lead sentence, which is how the model
// gets primed before it calls the tool.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

//go:embed data/*.md
var files embed.FS

// Prompt is one embedded instructional text.
type Prompt struct {
	Name   string `yaml:"name"`
	Tool   string `yaml:"tool"`
	Title  string `yaml:"title"`
	Lead   string `yaml:"lead"`
	Inline bool   `yaml:"inline"`

	Body string `yaml:"-"`
}

// ToolDescription is the description advertised for the prompt's tool.
func (p Prompt) ToolDescription() string {
	if !p.Inline {
		return p.Lead
	}
	return p.Lead + " " + p.Body
}

var catalog = mustLoad()

func mustLoad() map[string]Prompt {
	prompts, err := load(files)
	if err != nil {
		panic(fmt.Sprintf("loading embedded prompts: %v", err))
	}
	return prompts
}

func load(fsys fs.FS) (map[string]Prompt, error) {
	names, err := fs.Glob(fsys, "data/*.md")
	if err != nil {
		return nil, err
	}

	prompts := make(map[string]Prompt, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		p, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(path.Base(name), ".md")
		}
		prompts[p.Name] = p
	}
	return prompts, nil
}

func parse(raw []byte) (Prompt, error) {
	var p Prompt
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &p)
	if err != nil {
		return Prompt{}, err
	}
	p.Body = string(body)
	return p, nil
}

// Get returns the prompt called name.
func Get(name string) (Prompt, bool) {
	p, ok := catalog[name]
	return p, ok
}

// MustGet is Get for prompts shipped with the binary.
func MustGet(name string) Prompt {
	p, ok := Get(name)
	if !ok {
		panic("unknown prompt: " + name)
	}
	return p
}

// Names lists the available prompts in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Synthese primes the model for a structured text summary.
func Synthese() Prompt { return MustGet("synthese") }

// Gourmand primes the model for recipe conversion to gourmet XML.
func Gourmand() Prompt { return MustGet("gourmand") }

// SummaryPrefix is the sentence put in front of the email digests.
func SummaryPrefix() string {
	return strings.TrimSpace(MustGet("resume").Body) + " "
}
