package shift

import (
	"sort"

	"github.com/google/uuid"

	"github.com/warp/shiftlock/generic"
)

// =============================================================================
// IMPORT MERGE - Overlaying imported days onto existing ones
// =============================================================================

// Conflict is an imported day that would overwrite different times the
// worker already entered.
type Conflict struct {
	Date     string    `json:"date"`
	Existing DayRecord `json:"existing"`
	Imported DayRecord `json:"imported"`
}

// Choice resolves a Conflict.
type Choice string

const (
	ChoiceKeep      Choice = "keep"
	ChoiceOverwrite Choice = "overwrite"
)

type MergeResult struct {
	// Shifts is the merged map: safe updates applied, conflicts left as they
	// were until resolved.
	Shifts    Shifts     `json:"-"`
	Applied   []string   `json:"applied"`
	Unchanged []string   `json:"unchanged"`
	Conflicts []Conflict `json:"conflicts"`
}

// Merge overlays incoming onto a copy of existing.
//
// A day already holding a start or end time conflicts with an import whose
// normalized times differ; identical times leave it unchanged. Every other
// import is applied. Imported pauses without an ID get one.
func Merge(existing Shifts, incoming []DayRecord) MergeResult {
	res := MergeResult{Shifts: existing.Clone(), Applied: []string{}, Unchanged: []string{}, Conflicts: []Conflict{}}

	for _, imp := range incoming {
		if imp.Date == "" {
			continue
		}
		imp = normalizeImported(imp)

		cur, ok := res.Shifts[imp.Date]
		if ok && hasAnyTime(cur) {
			if sameTimes(cur, imp) {
				res.Unchanged = append(res.Unchanged, imp.Date)
				continue
			}
			res.Conflicts = append(res.Conflicts, Conflict{Date: imp.Date, Existing: cur, Imported: imp})
			continue
		}

		res.Shifts[imp.Date] = overlay(cur, ok, imp)
		res.Applied = append(res.Applied, imp.Date)
	}

	sort.Strings(res.Applied)
	sort.Slice(res.Conflicts, func(i, j int) bool { return res.Conflicts[i].Date < res.Conflicts[j].Date })
	return res
}

// Resolve applies choice to the conflicts for dates (all conflicts when no
// date is given) and removes them from the pending list.
func (r *MergeResult) Resolve(choice Choice, dates ...string) {
	want := make(map[string]bool, len(dates))
	for _, d := range dates {
		want[d] = true
	}

	remaining := r.Conflicts[:0]
	for _, c := range r.Conflicts {
		if len(dates) > 0 && !want[c.Date] {
			remaining = append(remaining, c)
			continue
		}
		if choice == ChoiceOverwrite {
			r.Shifts[c.Date] = overlay(c.Existing, true, c.Imported)
			r.Applied = append(r.Applied, c.Date)
		} else {
			r.Unchanged = append(r.Unchanged, c.Date)
		}
	}
	r.Conflicts = remaining
	sort.Strings(r.Applied)
}

// Changed returns the merged records for every applied date, ready to hand
// to Store.ImportDays.
func (r MergeResult) Changed() []DayRecord {
	out := make([]DayRecord, 0, len(r.Applied))
	for _, d := range r.Applied {
		out = append(out, r.Shifts[d])
	}
	return out
}

func normalizeImported(rec DayRecord) DayRecord {
	rec = rec.Clone()
	if w, ok := rec.Worked(); ok {
		w.Start = quickOrRaw(w.Start)
		w.End = quickOrRaw(w.End)
		for i := range w.Pauses {
			if w.Pauses[i].ID == "" {
				w.Pauses[i].ID = uuid.NewString()
			}
			w.Pauses[i].Start = quickOrRaw(w.Pauses[i].Start)
			w.Pauses[i].End = quickOrRaw(w.Pauses[i].End)
		}
	}
	return rec
}

func quickOrRaw(s string) string {
	if q := generic.ParseQuickTime(s); q != "" {
		return q
	}
	return s
}

func hasAnyTime(rec DayRecord) bool {
	w, ok := rec.Worked()
	return ok && (w.Start != "" || w.End != "")
}

func sameTimes(a, b DayRecord) bool {
	var as, ae, bs, be string
	if w, ok := a.Worked(); ok {
		as, ae = generic.ParseQuickTime(w.Start), generic.ParseQuickTime(w.End)
	}
	if w, ok := b.Worked(); ok {
		bs, be = generic.ParseQuickTime(w.Start), generic.ParseQuickTime(w.End)
	}
	return as == bs && ae == be
}

// overlay writes imp over cur. Fields the import leaves empty keep the
// existing value: a note, and a worked day's pauses or night flag.
func overlay(cur DayRecord, exists bool, imp DayRecord) DayRecord {
	out := imp.Clone()
	if !exists {
		return out
	}
	if out.Note == "" {
		out.Note = cur.Note
	}
	if w, ok := out.Worked(); ok {
		if prev, ok := cur.Worked(); ok {
			if len(w.Pauses) == 0 {
				w.Pauses = append([]Pause(nil), prev.Pauses...)
			}
			w.IsNight = w.IsNight || prev.IsNight
		}
	}
	return out
}
