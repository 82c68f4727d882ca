package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceColumns nombres de columna del payload externo para cada campo de asignación.
type SourceColumns struct {
	ICCID             string `yaml:"iccid"`
	CustomerID        string `yaml:"customer_id"`
	ContractStartDate string `yaml:"contract_start_date"`
	ContractEndDate   string `yaml:"contract_end_date"`
	ShippedDate       string `yaml:"shipped_date"`
	ArrivedDate       string `yaml:"arrived_date"`
	ReturnedDate      string `yaml:"returned_date"`
}

// Source entrada del registro estático de fuentes externas.
type Source struct {
	Name        string        `yaml:"name"`
	DisplayName string        `yaml:"display_name"`
	Enabled     bool          `yaml:"enabled"`
	Category    string        `yaml:"category"` // nombre de la categoría de uso
	Columns     SourceColumns `yaml:"columns"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// DefaultSourceColumns columnas por defecto de los payloads externos.
func DefaultSourceColumns() SourceColumns {
	return SourceColumns{
		ICCID:             "iccid",
		CustomerID:        "customer_id",
		ContractStartDate: "start_date",
		ContractEndDate:   "end_date",
		ShippedDate:       "shipped_date",
		ArrivedDate:       "arrived_date",
		ReturnedDate:      "returned_date",
	}
}

// DefaultSources fuentes conocidas cuando no hay archivo de registro.
func DefaultSources() []Source {
	return []Source{
		{Name: "buppan", DisplayName: "物販", Enabled: true, Category: "物販", Columns: DefaultSourceColumns()},
		{Name: "versus", DisplayName: "ポケカ認証", Enabled: true, Category: "ポケカ認証", Columns: DefaultSourceColumns()},
		{Name: "avaris", DisplayName: "アダアフィ", Enabled: true, Category: "アダアフィ", Columns: DefaultSourceColumns()},
	}
}

// LoadSources carga el registro desde path (vacío = DefaultSources) y aplica categoryOverrides
// con formato "fuente=categoría,...". Una fuente del override que no exista se agrega habilitada.
func LoadSources(path, categoryOverrides string) ([]Source, error) {
	sources := DefaultSources()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("leer registro de fuentes: %w", err)
		}
		var f sourcesFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse registro de fuentes %s: %w", path, err)
		}
		sources = f.Sources
	}

	overrides, err := parseCategoryOverrides(categoryOverrides)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		found := false
		for i := range sources {
			if sources[i].Name == o[0] {
				sources[i].Category = o[1]
				found = true
			}
		}
		if !found {
			sources = append(sources, Source{Name: o[0], DisplayName: o[0], Enabled: true, Category: o[1], Columns: DefaultSourceColumns()})
		}
	}

	seen := make(map[string]bool, len(sources))
	for i := range sources {
		s := &sources[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("registro de fuentes: entrada %d sin nombre", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("registro de fuentes: fuente %q duplicada", s.Name)
		}
		seen[s.Name] = true
		if s.DisplayName == "" {
			s.DisplayName = s.Name
		}
	}
	return sources, nil
}

func parseCategoryOverrides(s string) ([][2]string, error) {
	var out [][2]string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, cat, ok := strings.Cut(part, "=")
		name, cat = strings.TrimSpace(name), strings.TrimSpace(cat)
		if !ok || name == "" || cat == "" {
			return nil, fmt.Errorf("SYNC_SOURCE_CATEGORIES: entrada inválida %q", part)
		}
		out = append(out, [2]string{name, cat})
	}
	return out, nil
}
