package mcp

import (
	"context"
	"encoding/json"
	"math/big"
	"strconv"
	"time"

	"perso/internal/clipboard"
	"perso/internal/mail"
	"perso/internal/prompts"
	"perso/internal/recipes"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// Tool names.
const (
	ToolCalcul          = "calcul"
	ToolResumeEmails    = "resume_emails"
	ToolMarqueRecette   = "marque_recette_faite"
	ToolProposeRecettes = "propose_des_recettes"
	ToolPrepareSynthese = "prepare_synthese"
	ToolGourmandise     = "gourmandise_recette"
)

const (
	guidanceTitre    = "Veuillez spécifier le titre de la recette."
	guidanceProposal = "Veuillez spécifier la source et la quantité de recettes."
	resumeFailure    = "Impossible de résumer les emails : "
)

// Deps are the collaborators the tools call into.
type Deps struct {
	Recipes   recipes.Store
	Mail      mail.MailSummarizer
	Clipboard clipboard.Reader
	// Now defaults to time.Now.
	Now func() time.Time
}

// integer narrows a number property to whole numbers.
func integer() mcpgo.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// NewToolRegistry registers the six tools in their advertised order.
func NewToolRegistry(deps Deps) (*Registry, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &toolHandlers{deps: deps}

	synthese := prompts.Synthese()
	gourmand := prompts.Gourmand()
	resume := prompts.MustGet("resume")

	tools := []Tool{
		{
			Descriptor: mcpgo.NewTool(ToolCalcul,
				mcpgo.WithDescription("Additionne deux nombres"),
				mcpgo.WithNumber("a", mcpgo.Required(), mcpgo.Description("Premier nombre")),
				mcpgo.WithNumber("b", mcpgo.Required(), mcpgo.Description("Second nombre")),
				mcpgo.WithReadOnlyHintAnnotation(true),
				mcpgo.WithDestructiveHintAnnotation(false),
				mcpgo.WithIdempotentHintAnnotation(true),
				mcpgo.WithOpenWorldHintAnnotation(false),
			),
			Handler: h.calcul,
		},
		{
			Descriptor: mcpgo.NewTool(ToolResumeEmails,
				mcpgo.WithDescription(resume.ToolDescription()),
				mcpgo.WithTitleAnnotation(resume.Title),
				mcpgo.WithReadOnlyHintAnnotation(true),
				mcpgo.WithDestructiveHintAnnotation(false),
				mcpgo.WithOpenWorldHintAnnotation(false),
			),
			Handler: h.resumeEmails,
		},
		{
			Descriptor: mcpgo.NewTool(ToolMarqueRecette,
				mcpgo.WithDescription("Met à jour le champ description d'une recette."),
				mcpgo.WithString("titre", mcpgo.Required(), mcpgo.Description("Titre de la recette")),
				mcpgo.WithIdempotentHintAnnotation(true),
				mcpgo.WithOpenWorldHintAnnotation(false),
			),
			Handler: h.marqueRecetteFaite,
		},
		{
			Descriptor: mcpgo.NewTool(ToolProposeRecettes,
				mcpgo.WithDescription("Propose un nombre défini de recettes d'une source donnée."),
				mcpgo.WithString("source", mcpgo.Required(), mcpgo.Description("Source des recettes")),
				mcpgo.WithNumber("quantite", mcpgo.Required(), integer(), mcpgo.Description("Nombre de recettes à proposer")),
				mcpgo.WithReadOnlyHintAnnotation(true),
				mcpgo.WithDestructiveHintAnnotation(false),
				mcpgo.WithOpenWorldHintAnnotation(false),
			),
			Handler: h.proposeDesRecettes,
		},
		{
			Descriptor: mcpgo.NewTool(ToolPrepareSynthese,
				mcpgo.WithDescription(synthese.ToolDescription()),
				mcpgo.WithTitleAnnotation(synthese.Title),
				mcpgo.WithReadOnlyHintAnnotation(true),
				mcpgo.WithDestructiveHintAnnotation(false),
			),
			Handler: h.clipboardContext,
		},
		{
			Descriptor: mcpgo.NewTool(ToolGourmandise,
				mcpgo.WithDescription(gourmand.ToolDescription()),
				mcpgo.WithTitleAnnotation(gourmand.Title),
				mcpgo.WithReadOnlyHintAnnotation(true),
				mcpgo.WithDestructiveHintAnnotation(false),
			),
			Handler: h.clipboardContext,
		},
	}

	registry := NewRegistry()
	for _, t := range tools {
		if err := registry.Register(t.Descriptor, t.Handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

type toolHandlers struct {
	deps Deps
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *toolHandlers) calcul(ctx context.Context, req mcpgo.CallToolRequest) Outcome {
	if a, ok := integerArgument(req, "a"); ok {
		if b, ok := integerArgument(req, "b"); ok {
			sum := new(big.Int).Add(a, b)
			return Ok("Le résultat de " + a.String() + " + " + b.String() + " = " + sum.String())
		}
	}

	a := req.GetFloat("a", 0)
	b := req.GetFloat("b", 0)
	return Ok("Le résultat de " + formatNumber(a) + " + " + formatNumber(b) + " = " + formatNumber(a+b))
}

// integerArgument reports the argument as an exact integer when it was sent
// as one. Absent arguments count as 0.
func integerArgument(req mcpgo.CallToolRequest, key string) (*big.Int, bool) {
	v, present := req.GetArguments()[key]
	if !present {
		return new(big.Int), true
	}
	switch v := v.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case json.Number:
		return new(big.Int).SetString(v.String(), 10)
	default:
		return nil, false
	}
}

func (h *toolHandlers) resumeEmails(ctx context.Context, req mcpgo.CallToolRequest) Outcome {
	if h.deps.Mail == nil {
		return CollaboratorError(resumeFailure+"aucune boîte mail configurée", errNoCollaborator)
	}
	out, err := h.deps.Mail.Summarize(ctx)
	if err != nil {
		return CollaboratorError(resumeFailure+err.Error(), err)
	}
	return Ok(out)
}

func (h *toolHandlers) marqueRecetteFaite(ctx context.Context, req mcpgo.CallToolRequest) Outcome {
	titre := req.GetString("titre", "")
	if titre == "" {
		return Guidance(guidanceTitre)
	}
	if h.deps.Recipes == nil {
		return CollaboratorError(recipes.UnavailableMessage, errNoCollaborator)
	}

	text, err := recipes.MarkDone(ctx, h.deps.Recipes, titre, h.deps.Now())
	if err != nil {
		return CollaboratorError(text, err)
	}
	return Ok(text)
}

func (h *toolHandlers) proposeDesRecettes(ctx context.Context, req mcpgo.CallToolRequest) Outcome {
	source := req.GetString("source", "")
	if _, present := req.GetArguments()["quantite"]; source == "" || !present {
		return Guidance(guidanceProposal)
	}
	quantite := req.GetInt("quantite", 0)
	if quantite <= 0 {
		return Guidance(guidanceProposal)
	}
	if h.deps.Recipes == nil {
		return CollaboratorError(recipes.UnavailableMessage, errNoCollaborator)
	}

	text, err := recipes.Propose(ctx, h.deps.Recipes, source, quantite)
	if err != nil {
		return CollaboratorError(text, err)
	}
	return Ok(text)
}

// clipboardContext serves both prompt-priming tools: the prompt itself
// travels in the tool description, the call only fetches the selection.
func (h *toolHandlers) clipboardContext(ctx context.Context, req mcpgo.CallToolRequest) Outcome {
	if h.deps.Clipboard == nil {
		return CollaboratorError(clipboard.Describe(errNoCollaborator), errNoCollaborator)
	}
	text, err := clipboard.Payload(ctx, h.deps.Clipboard)
	if err != nil {
		return CollaboratorError(text, err)
	}
	return Ok(text)
}
