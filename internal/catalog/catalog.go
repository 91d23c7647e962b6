package catalog

import "fmt"

// Entry is one row of the official publication catalog. Slice order is
// significant: it is the canonical display order of the monthly sheet.
// Entries with IsCategory set are section headers, not countable items.
type Entry struct {
	Code       string
	Name       string
	Category   string
	Abbr       string
	IsCategory bool
}

// Identifier returns the stable identifier for the entry at index idx:
// the item code when present, else the abbreviation, else a positional
// fallback.
func Identifier(e Entry, idx int) string {
	if e.Code != "" {
		return e.Code
	}
	if e.Abbr != "" {
		return e.Abbr
	}
	return fmt.Sprintf("item_%d", idx)
}

// Entries returns the full catalog in display order. Callers must not
// mutate the returned slice.
func Entries() []Entry {
	return entries
}

// Categories returns the category labels in display order.
func Categories() []string {
	var cats []string
	for _, e := range entries {
		if e.IsCategory {
			cats = append(cats, e.Name)
		}
	}
	return cats
}

// IdentifierSet returns the set of every catalog identifier. Custom items
// whose identifier collides with a catalog row are shadowed during
// reconciliation.
func IdentifierSet() map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		set[Identifier(e, i)] = struct{}{}
	}
	return set
}

// FindByCode resolves a scanned code or abbreviation to a catalog
// identifier. Returns "" when nothing matches.
func FindByCode(code string) string {
	if code == "" {
		return ""
	}
	for i, e := range entries {
		if e.IsCategory {
			continue
		}
		if e.Code == code || e.Abbr == code {
			return Identifier(e, i)
		}
	}
	return ""
}

const (
	CategoryBiblias     = "Bíblias"
	CategoryLivros      = "Livros"
	CategoryBrochuras   = "Brochuras e livretos"
	CategoryRevistas    = "Revistas"
	CategoryFolhetos    = "Folhetos e convites"
	CategoryFormularios = "Formulários"
)

var entries = []Entry{
	{Name: CategoryBiblias, Category: CategoryBiblias, IsCategory: true},
	{Code: "1001", Name: "Tradução do Novo Mundo da Bíblia Sagrada", Category: CategoryBiblias, Abbr: "nwt"},
	{Code: "1002", Name: "Tradução do Novo Mundo (edição de bolso)", Category: CategoryBiblias, Abbr: "nwtpkt"},
	{Code: "1003", Name: "Tradução do Novo Mundo (letra grande)", Category: CategoryBiblias, Abbr: "nwtls"},

	{Name: CategoryLivros, Category: CategoryLivros, IsCategory: true},
	{Code: "5414", Name: "O Que a Bíblia Pode Nos Ensinar?", Category: CategoryLivros, Abbr: "bhs"},
	{Code: "5415", Name: "Seja Feliz para Sempre!", Category: CategoryLivros, Abbr: "lff"},
	{Code: "5416", Name: "Aprenda com as Histórias da Bíblia", Category: CategoryLivros, Abbr: "lfb"},
	{Code: "5417", Name: "Cante de Coração", Category: CategoryLivros, Abbr: "sjj"},
	{Code: "5418", Name: "Organizados para Fazer a Vontade de Jeová", Category: CategoryLivros, Abbr: "od"},

	{Name: CategoryBrochuras, Category: CategoryBrochuras, IsCategory: true},
	{Code: "6801", Name: "Escute a Deus e Viva para Sempre", Category: CategoryBrochuras, Abbr: "ll"},
	{Code: "6802", Name: "Quem Está Fazendo a Vontade de Jeová?", Category: CategoryBrochuras, Abbr: "jl"},
	{Code: "6803", Name: "Boas Notícias de Deus para Você", Category: CategoryBrochuras, Abbr: "fg"},
	{Code: "6804", Name: "O Caminho para a Vida Eterna", Category: CategoryBrochuras, Abbr: "ol"},
	{Code: "6805", Name: "Examine as Escrituras Diariamente", Category: CategoryBrochuras, Abbr: "es"},

	{Name: CategoryRevistas, Category: CategoryRevistas, IsCategory: true},
	{Name: "A Sentinela (edição de estudo)", Category: CategoryRevistas, Abbr: "w"},
	{Name: "A Sentinela (edição do público)", Category: CategoryRevistas, Abbr: "wp"},
	{Name: "Despertai!", Category: CategoryRevistas, Abbr: "g"},

	{Name: CategoryFolhetos, Category: CategoryFolhetos, IsCategory: true},
	{Name: "O Que Você Espera do Futuro?", Category: CategoryFolhetos, Abbr: "T-30"},
	{Name: "Você Gostaria de Saber a Verdade?", Category: CategoryFolhetos, Abbr: "T-31"},
	{Name: "A Vida Tem Sentido?", Category: CategoryFolhetos, Abbr: "T-32"},
	{Name: "Quem Controla Realmente o Mundo?", Category: CategoryFolhetos, Abbr: "T-33"},
	{Name: "Convite para as reuniões", Category: CategoryFolhetos, Abbr: "inv"},

	{Name: CategoryFormularios, Category: CategoryFormularios, IsCategory: true},
	{Name: "Registro de Estoque de Publicações", Category: CategoryFormularios, Abbr: "S-28"},
	{Name: "Pedido de Publicações", Category: CategoryFormularios, Abbr: "S-14"},
	{Name: "Registro de Casa em Casa", Category: CategoryFormularios, Abbr: "S-8"},
}
