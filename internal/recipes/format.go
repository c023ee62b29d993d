package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the description written by MarkDone.
const DateLayout = "2006-01-02"

// FormatRecipe renders a recipe as "title: description".
func FormatRecipe(r Recipe) string {
	return fmt.Sprintf("%s: %s", r.Title, r.Description)
}

// NotFoundMessage is the text returned when no recipe matches title.
func NotFoundMessage(title string) string {
	return fmt.Sprintf("Recette '%s' introuvable.", title)
}

// NoneFoundMessage is the single line returned for an empty search.
func NoneFoundMessage(source string) string {
	return fmt.Sprintf("Aucune recette trouvée pour la source '%s'.", source)
}

// FormatProposals renders search results as "description: title" lines.
// An empty result yields one explanatory line, never an empty slice.
func FormatProposals(source string, found []Recipe) []string {
	if len(found) == 0 {
		return []string{NoneFoundMessage(source)}
	}
	lines := make([]string, 0, len(found))
	for _, r := range found {
		lines = append(lines, fmt.Sprintf("%s: %s", r.Description, r.Title))
	}
	return lines
}

// UnavailableMessage is the text returned when the database cannot be reached.
const UnavailableMessage = "Impossible de se connecter à la base de données."

func describe(action string, err error) string {
	if errors.Is(err, ErrUnavailable) {
		return UnavailableMessage
	}
	return fmt.Sprintf("Erreur lors de %s: %v", action, err)
}

// The operations below always return a text meant for the user. A non-nil
// error means the text describes a failure rather than data.

// Lookup returns the formatted recipe or the not-found text.
func Lookup(ctx context.Context, finder Finder, title string) (string, error) {
	r, err := finder.Get(ctx, title)
	if errors.Is(err, ErrNotFound) {
		return NotFoundMessage(title), nil
	}
	if err != nil {
		return describe("la récupération", err), err
	}
	return FormatRecipe(r), nil
}

// MarkDone stamps the recipe description with the date of now. A missing
// title is a normal answer, not an error.
func MarkDone(ctx context.Context, store Store, title string, now time.Time) (string, error) {
	r, err := store.Update(ctx, title, now.Format(DateLayout))
	if errors.Is(err, ErrNotFound) {
		return NotFoundMessage(title), nil
	}
	if err != nil {
		return describe("la mise à jour", err), err
	}
	return FormatRecipe(r), nil
}

// Propose returns up to limit recipes of source, one per line.
func Propose(ctx context.Context, store Store, source string, limit int) (string, error) {
	found, err := store.Search(ctx, source, limit)
	if err != nil {
		return describe("la recherche", err), err
	}
	return strings.Join(FormatProposals(source, found), "\n"), nil
}
