package prompts

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalog(t *testing.T) {
	assert.Equal(t, []string{"gourmand", "resume", "synthese"}, Names())

	syn := Synthese()
	assert.Equal(t, "prepare_synthese", syn.Tool)
	assert.True(t, syn.Inline)
	assert.True(t, strings.HasPrefix(syn.Body, "\n**OBJECTIF**"))

	gou := Gourmand()
	assert.Equal(t, "gourmandise_recette", gou.Tool)
	assert.Contains(t, gou.Body, "<gourmetDoc>")
}

func TestToolDescription(t *testing.T) {
	syn := Synthese()
	desc := syn.ToolDescription()

	assert.True(t, strings.HasPrefix(desc, "Établit un contexte pour réaliser des synthèses de textes. \n**OBJECTIF**"))
	assert.True(t, strings.HasSuffix(desc, syn.Body))

	resume := MustGet("resume")
	assert.False(t, resume.Inline)
	assert.Equal(t, "Lit les emails et renvoie un prompt pour le résumé.", resume.ToolDescription())
}

func TestSummaryPrefix(t *testing.T) {
	assert.Equal(t, "écrit un résumé de 80 mots pour chacun des emails qui suivent : ", SummaryPrefix())
}

func TestGet_Unknown(t *testing.T) {
	_, ok := Get("inexistant")
	assert.False(t, ok)

	assert.Panics(t, func() { MustGet("inexistant") })
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"data/essai.md": {Data: []byte("---\ntool: essai_tool\nlead: Essai.\n---\ncorps\n")},
	}

	prompts, err := load(fsys)
	require.NoError(t, err)

	p, ok := prompts["essai"]
	require.True(t, ok, "name falls back to the file name")
	assert.Equal(t, "essai_tool", p.Tool)
	assert.Equal(t, "corps\n", p.Body)
}

func TestLoad_MissingFrontMatter(t *testing.T) {
	fsys := fstest.MapFS{
		"data/nu.md": {Data: []byte("pas de front matter\n")},
	}

	_, err := load(fsys)
	assert.Error(t, err)
}
