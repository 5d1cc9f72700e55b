// Package correction models the hand-curated fixes applied to records the
// automatic cleanup cannot decide on: low-confidence matches found during
// migration review. Each entry is exactly one variant.
package correction

import (
	"strings"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/phone"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
	"github.com/BruksfildServices01/booking-cleanup/internal/validators"
)

const (
	KindRename    = "rename"
	KindForceFlag = "force_flag"
	KindSplit     = "split"
	KindDelete    = "delete"
)

// Correction is implemented by Rename, ForceFlag, Split and Delete only.
type Correction interface {
	Kind() string
	// Target names the table and the first affected id, for the report.
	Target() (table, id string)
	validate() error
}

// ======================================================
// Variants
// ======================================================

type Rename struct {
	Table string `yaml:"table"`
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
}

type ForceFlag struct {
	Table string `yaml:"table"`
	ID    string `yaml:"id"`
	Flag  string `yaml:"flag"`
	Value bool   `yaml:"value"`
}

// Part is one record produced by a Split. Empty fields keep the original
// row's value.
type Part struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email,omitempty"`
}

type Split struct {
	Table string `yaml:"table"`
	ID    string `yaml:"id"`
	Into  []Part `yaml:"into"`
}

type Delete struct {
	Table string   `yaml:"table"`
	IDs   []string `yaml:"ids"`
}

func (Rename) Kind() string    { return KindRename }
func (ForceFlag) Kind() string { return KindForceFlag }
func (Split) Kind() string     { return KindSplit }
func (Delete) Kind() string    { return KindDelete }

func (c Rename) Target() (string, string)    { return c.Table, c.ID }
func (c ForceFlag) Target() (string, string) { return c.Table, c.ID }
func (c Split) Target() (string, string)     { return c.Table, c.ID }

func (c Delete) Target() (string, string) {
	return c.Table, strings.Join(c.IDs, ",")
}

// ======================================================
// Validation
// ======================================================

// flags that a correction may force, per table
var allowedFlags = map[string]map[string]bool{
	models.TableCustomers: {"marketing_consent": true, "needs_review": true},
	models.TableBookings:  {"needs_review": true},
}

func AllowedFlag(table, flag string) bool {
	return allowedFlags[table][flag]
}

func checkTarget(kind, table, id string) error {
	if table != models.TableBookings && table != models.TableCustomers {
		return apperr.Errorf(apperr.CodeInvalidCorrection, "%s: table %q is not correctable", kind, table)
	}
	if strings.TrimSpace(id) == "" {
		return apperr.Errorf(apperr.CodeInvalidCorrection, "%s on %s: id is required", kind, table)
	}
	return nil
}

func (c Rename) validate() error {
	if err := checkTarget(KindRename, c.Table, c.ID); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Errorf(apperr.CodeInvalidCorrection, "rename %s/%s: name is required", c.Table, c.ID)
	}
	return nil
}

func (c ForceFlag) validate() error {
	if err := checkTarget(KindForceFlag, c.Table, c.ID); err != nil {
		return err
	}
	if !AllowedFlag(c.Table, c.Flag) {
		return apperr.Errorf(apperr.CodeInvalidCorrection, "force_flag %s/%s: flag %q not allowed", c.Table, c.ID, c.Flag)
	}
	return nil
}

func (c Split) validate() error {
	if err := checkTarget(KindSplit, c.Table, c.ID); err != nil {
		return err
	}
	if len(c.Into) < 2 {
		return apperr.Errorf(apperr.CodeInvalidCorrection, "split %s/%s: needs at least two parts", c.Table, c.ID)
	}
	for i, p := range c.Into {
		if p.Phone != "" {
			if _, ok := phone.Normalize(p.Phone); !ok {
				return apperr.Errorf(apperr.CodeInvalidCorrection, "split %s/%s part %d: phone %q does not normalize", c.Table, c.ID, i, p.Phone)
			}
		}
		if p.Email != "" && c.Table != models.TableCustomers {
			return apperr.Errorf(apperr.CodeInvalidCorrection, "split %s/%s part %d: email only applies to customers", c.Table, c.ID, i)
		}
		if p.Email != "" && !validators.IsEmail(p.Email) {
			return apperr.Errorf(apperr.CodeInvalidCorrection, "split %s/%s part %d: bad email %q", c.Table, c.ID, i, p.Email)
		}
	}
	return nil
}

func (c Delete) validate() error {
	if len(c.IDs) == 0 {
		return apperr.Errorf(apperr.CodeInvalidCorrection, "delete on %s: ids are required", c.Table)
	}
	for _, id := range c.IDs {
		if err := checkTarget(KindDelete, c.Table, id); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the column values a split part writes over the copied row.
// Phone comes back canonical.
func (p Part) Fields() map[string]any {
	out := map[string]any{}
	if p.Name != "" {
		out["name"] = p.Name
	}
	if p.Phone != "" {
		if c, ok := phone.Normalize(p.Phone); ok {
			out["phone"] = c.String()
		}
	}
	if p.Email != "" {
		out["email"] = p.Email
	}
	return out
}
