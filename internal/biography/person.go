// Package biography parses biography-file headers into identified persons
// and derives the aliases by which they appear in running text.
package biography

import (
	"github.com/Feiyang472/naive-text/internal/corpus"
)

// Kind discriminates the person variants.
type Kind string

const (
	// Emperor – has temple name and posthumous title (本紀 figures).
	Emperor Kind = "Emperor"
	// Official – regular person in the 列傳 biographies.
	Official Kind = "Official"
	// Deposed – deposed emperor / prince with 諱 but no full temple name.
	Deposed Kind = "Deposed"
	// Ruler – sovereign of a rival state (載記 figures, 十六國 etc.), not
	// recognized as emperor by the compiling dynasty.
	Ruler Kind = "Ruler"
)

// Person is a fully identified historical person. Optional fields are nil
// when the source does not record them; kind determines which fields are
// meaningful.
type Person struct {
	Kind Kind `json:"kind"`

	// Emperor fields
	TempleName *string `json:"temple_name,omitempty"` // 庙号: 高祖, 太宗, …
	Posthumous string  `json:"posthumous,omitempty"`  // 谥号: 武皇帝, 宣帝, …

	// Shared naming fields
	Surname   string  `json:"surname,omitempty"`
	GivenName string  `json:"given_name"`
	Courtesy  *string `json:"courtesy,omitempty"`
	Childhood *string `json:"childhood,omitempty"`

	// Official: place of origin, e.g. 河南陽翟. Ruler: lineage description,
	// e.g. 皝之第五子.
	Origin *string `json:"origin,omitempty"`

	// Deposed: the display title (廢帝, 海陵王, …).
	Title string `json:"title,omitempty"`

	Source corpus.Source `json:"source"`

	// Aliases are all the names this person may be referred to by in
	// running text. Precomputed after parsing; never mutated again.
	Aliases []string `json:"aliases"`
}

// DisplayName is the canonical display name for this person.
func (p *Person) DisplayName() string {
	switch p.Kind {
	case Emperor:
		if p.Surname != "" {
			return p.Surname + p.GivenName
		}
		return p.Posthumous
	case Deposed:
		return p.Title + p.GivenName
	default: // Official, Ruler
		return p.Surname + p.GivenName
	}
}

// ComputeAliases fills p.Aliases with the ordered set of strings by which
// the person may be referenced in running text.
func (p *Person) ComputeAliases() {
	var aliases []string
	add := func(s string) {
		if s != "" {
			aliases = append(aliases, s)
		}
	}

	switch p.Kind {
	case Emperor:
		if p.Surname != "" {
			add(p.Surname + p.GivenName)
		}
		add(p.GivenName)
		add(p.Posthumous)
		if p.TempleName != nil {
			add(*p.TempleName)
		}
		if p.Courtesy != nil {
			add(*p.Courtesy)
		}
		if p.Childhood != nil {
			add(*p.Childhood)
		}
	case Deposed:
		add(p.Title)
		add(p.GivenName)
		if p.Courtesy != nil {
			add(*p.Courtesy)
		}
		if p.Childhood != nil {
			add(*p.Childhood)
		}
	default: // Official, Ruler
		add(p.Surname + p.GivenName)
		add(p.GivenName)
		if p.Courtesy != nil {
			add(*p.Courtesy)
		}
	}

	p.Aliases = aliases
}
