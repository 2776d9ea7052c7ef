package logic

import (
	"io"

	"github.com/AndrewHnidets/demo-repositories/internal/event"
	"github.com/AndrewHnidets/demo-repositories/internal/location"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
)

// ImageStore is the binary persistence collaborator. File writes are not
// transactional with the database; a failure after a successful store may
// leak the stored file (accepted gap).
type ImageStore interface {
	Store(r io.Reader, pathPrefix, originalName string) (string, error)
	Delete(ref string) error
}

// EventSink receives fire-and-forget domain events; swappable in tests.
type EventSink interface {
	Dispatch(evt event.Event)
}

// PhotoUpload is one uploaded binary plus its client-side name (for the
// extension).
type PhotoUpload struct {
	Name   string
	Reader io.Reader
}

// PartnerInput carries the partner slots of the project form; slot i across
// the parallel slices describes one partner.
type PartnerInput struct {
	IDs     []uint
	RoleIDs []uint
	Names   []string
	Links   []string
}

// shouldReplace mirrors the form's emptiness check: a filled first role slot
// or more than one id means the list was submitted.
func (p PartnerInput) shouldReplace() bool {
	if len(p.RoleIDs) > 0 && p.RoleIDs[0] != 0 {
		return true
	}
	return len(p.IDs) > 1
}

func (p PartnerInput) slots() int {
	n := len(p.RoleIDs)
	if len(p.Names) > n {
		n = len(p.Names)
	}
	return n
}

// VacancyInput carries the vacancy slots; names and descriptions are
// per-locale parallel slices.
type VacancyInput struct {
	IDs          []uint
	Names        map[model.Locale][]string
	Descriptions map[model.Locale][]string
}

// shouldReplace: a filled first name slot in any locale, or more than one id.
func (v VacancyInput) shouldReplace() bool {
	for _, names := range v.Names {
		if len(names) > 0 && names[0] != "" {
			return true
		}
	}
	return len(v.IDs) > 1
}

func (v VacancyInput) slots() int {
	n := 0
	for _, names := range v.Names {
		if len(names) > n {
			n = len(names)
		}
	}
	return n
}

// slotField collects one slot of a per-locale slice map into a field value.
func slotField(values map[model.Locale][]string, i int) model.LocalizedField {
	field := model.LocalizedField{}
	for locale, list := range values {
		if i < len(list) && list[i] != "" {
			field[locale] = list[i]
		}
	}
	return field
}

// ProjectInput is the raw project form. AreaIDs nil leaves the area
// associations untouched; an empty non-nil slice clears them.
type ProjectInput struct {
	Name             model.LocalizedField
	SmallDescription model.LocalizedField
	Description      model.LocalizedField

	Site            string
	Goals           []string
	InWork          string
	Status          int
	Budget          int64
	TimeInRelease   int
	ReceiveMessages bool
	IsPublished     bool
	FullAddress     string

	Address   *location.AddressInput
	AreaIDs   []uint
	Photos    []PhotoUpload
	Partners  PartnerInput
	Vacancies VacancyInput
}

// UserInput is the raw profile form. Only the surname visibility flag is
// driven from here; the remaining hide flags are managed elsewhere.
type UserInput struct {
	Name    model.LocalizedField
	Surname model.LocalizedField

	Phone    string
	Linkedin string
	Facebook string

	HideSurname  bool
	ActiveLocale model.Locale

	Address *location.AddressInput
	Avatar  *PhotoUpload
}
