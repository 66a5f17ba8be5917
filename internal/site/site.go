// Package site checks the navigation chrome around the sidebars: navbar
// entries that open a sidebar and footer links into the docs.
package site

import (
	"fmt"

	"github.com/dgallion1/docnav/internal/sidebar"
)

// Config is the site-level navigation configuration.
type Config struct {
	Title  string       `mapstructure:"title" json:"title"`
	Navbar []NavItem    `mapstructure:"navbar" json:"navbar" validate:"dive"`
	Footer []FooterLink `mapstructure:"footer" json:"footer" validate:"dive"`
}

// NavItem opens a sidebar or points at an external URL.
type NavItem struct {
	Label    string `mapstructure:"label" json:"label" validate:"required"`
	Sidebar  string `mapstructure:"sidebar" json:"sidebar,omitempty" validate:"required_without=Href,excluded_with=Href"`
	Href     string `mapstructure:"href" json:"href,omitempty" validate:"omitempty,url"`
	Position string `mapstructure:"position" json:"position,omitempty" validate:"omitempty,oneof=left right"`
}

// FooterLink points at a document or an external URL.
type FooterLink struct {
	Group string `mapstructure:"group" json:"group,omitempty"`
	Label string `mapstructure:"label" json:"label" validate:"required"`
	Doc   string `mapstructure:"doc" json:"doc,omitempty" validate:"required_without=Href,excluded_with=Href"`
	Href  string `mapstructure:"href" json:"href,omitempty" validate:"omitempty,url"`
}

const (
	navbarTree = "navbar"
	footerTree = "footer"
)

// Check reports navbar items naming a sidebar the registry lacks and footer
// links to documents the corpus lacks.
func Check(cfg Config, reg *sidebar.Registry, docs sidebar.Corpus) sidebar.Violations {
	var vs sidebar.Violations
	for i, item := range cfg.Navbar {
		if item.Sidebar == "" {
			continue
		}
		if _, ok := reg.Tree(item.Sidebar); !ok {
			vs = append(vs, sidebar.Violation{
				Kind:   sidebar.UnknownSidebar,
				Tree:   navbarTree,
				Path:   []int{i},
				Value:  item.Sidebar,
				Detail: fmt.Sprintf("navbar item %q", item.Label),
			})
		}
	}
	for i, link := range cfg.Footer {
		if link.Doc == "" {
			continue
		}
		if !docs.Contains(link.Doc) {
			v := sidebar.Violation{
				Kind:   sidebar.UnknownReference,
				Tree:   footerTree,
				Path:   []int{i},
				Value:  link.Doc,
				Detail: fmt.Sprintf("footer link %q", link.Label),
			}
			if link.Group != "" {
				v.Labels = []string{link.Group}
			}
			vs = append(vs, v)
		}
	}
	return vs
}
