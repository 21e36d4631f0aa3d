// Package mutate applies structured modification batches to a resume
// document. It is the state-machine core of the chat editor: operations come
// from the generation service already parsed from JSON, and are applied
// best-effort, one at a time, against the result of the previous operation.
package mutate

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/resume-studio/internal/types"
)

// Report is the outcome of applying a modification batch.
type Report struct {
	// Data is the resulting document snapshot. It never aliases nested
	// slices of the input.
	Data types.ResumeData
	// Applied counts operations that actually changed document state.
	Applied int
	// Skipped counts operations rejected as malformed or out of range.
	Skipped int
	// Warnings describes each skipped operation, in batch order.
	Warnings []string
}

// Apply runs the batch as a sequential fold: each operation sees the result
// of the previous one, because index fields are positional against the
// post-mutation state. A failing operation is skipped with a warning and the
// fold continues from the last-known-good state; one malformed AI-suggested
// edit must not discard the other valid edits in the batch. Every operation
// either returns a wholly new snapshot or leaves the state untouched.
func Apply(data types.ResumeData, mods []types.ResumeModification) Report {
	report := Report{Data: data.Clone()}

	for i, mod := range mods {
		before, err := json.Marshal(report.Data)
		if err != nil {
			// Serialization of our own types cannot fail with well-formed
			// data; treat it as a batch-stopping condition.
			report.Warnings = append(report.Warnings, fmt.Sprintf("op %d: state serialization failed: %v", i, err))
			report.Skipped += len(mods) - i
			break
		}

		next, err := applyOne(report.Data, mod)
		if err != nil {
			warning := fmt.Sprintf("op %d (%s): %v", i, mod, err)
			log.Printf("[APPLY] skipping %s", warning)
			report.Warnings = append(report.Warnings, warning)
			report.Skipped++
			continue
		}

		after, err := json.Marshal(next)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("op %d: result serialization failed: %v", i, err))
			report.Skipped++
			continue
		}

		if string(before) != string(after) {
			report.Applied++
		}
		report.Data = next
	}

	return report
}

// applyOne applies a single operation, returning a new snapshot. A recovered
// panic is converted to an error so one bad operation cannot take down the
// batch.
func applyOne(data types.ResumeData, mod types.ResumeModification) (result types.ResumeData, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = types.ResumeData{}
			err = fmt.Errorf("panic applying operation: %v", r)
		}
	}()

	switch mod.Target {
	case types.TargetPersonalInfo:
		return applyPersonalInfo(data, mod)
	case types.TargetSection:
		return applySection(data, mod)
	case types.TargetItem:
		return applyItem(data, mod)
	case types.TargetBullet:
		return applyBullet(data, mod)
	default:
		return types.ResumeData{}, fmt.Errorf("unknown target %q", mod.Target)
	}
}

func applyPersonalInfo(data types.ResumeData, mod types.ResumeModification) (types.ResumeData, error) {
	next := data.Clone()

	switch mod.Action {
	case types.ActionUpdate:
		value, err := decodeString(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("personalInfo update value: %w", err)
		}
		if err := setPersonalInfoField(&next.PersonalInfo, mod.Field, value); err != nil {
			return types.ResumeData{}, err
		}
		return next, nil

	case types.ActionDelete:
		if mod.Field != "" {
			if err := setPersonalInfoField(&next.PersonalInfo, mod.Field, ""); err != nil {
				return types.ResumeData{}, err
			}
			return next, nil
		}
		fields, err := decodeStringList(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("personalInfo delete value: %w", err)
		}
		for _, field := range fields {
			if err := setPersonalInfoField(&next.PersonalInfo, field, ""); err != nil {
				return types.ResumeData{}, err
			}
		}
		return next, nil

	case types.ActionReplace:
		var info types.PersonalInfo
		if err := decodeValue(mod.Value, &info); err != nil {
			return types.ResumeData{}, fmt.Errorf("personalInfo replace value: %w", err)
		}
		next.PersonalInfo = info
		return next, nil

	default:
		return types.ResumeData{}, fmt.Errorf("action %q not supported for personalInfo", mod.Action)
	}
}

func applySection(data types.ResumeData, mod types.ResumeModification) (types.ResumeData, error) {
	next := data.Clone()

	switch mod.Action {
	case types.ActionAdd:
		if mod.NewSection == nil {
			return types.ResumeData{}, fmt.Errorf("section add requires newSection")
		}
		next.Sections = append(next.Sections, mod.NewSection.Clone())
		return next, nil

	case types.ActionDelete:
		idx, err := requireIndex(mod.SectionIndex, "sectionIndex", len(next.Sections))
		if err != nil {
			return types.ResumeData{}, err
		}
		next.Sections = append(next.Sections[:idx], next.Sections[idx+1:]...)
		return next, nil

	case types.ActionMove:
		from, err := requireIndex(mod.SectionIndex, "sectionIndex", len(next.Sections))
		if err != nil {
			return types.ResumeData{}, err
		}
		if mod.ToIndex == nil {
			return types.ResumeData{}, fmt.Errorf("section move requires toIndex")
		}
		next.Sections = moveElement(next.Sections, from, *mod.ToIndex)
		return next, nil

	case types.ActionUpdate:
		idx, err := requireIndex(mod.SectionIndex, "sectionIndex", len(next.Sections))
		if err != nil {
			return types.ResumeData{}, err
		}
		return updateSectionField(next, idx, mod)

	case types.ActionReplace:
		idx, err := requireIndex(mod.SectionIndex, "sectionIndex", len(next.Sections))
		if err != nil {
			return types.ResumeData{}, err
		}
		if mod.NewSection == nil {
			return types.ResumeData{}, fmt.Errorf("section replace requires newSection")
		}
		next.Sections[idx] = mod.NewSection.Clone()
		return next, nil

	default:
		return types.ResumeData{}, fmt.Errorf("action %q not supported for section", mod.Action)
	}
}

func updateSectionField(next types.ResumeData, idx int, mod types.ResumeModification) (types.ResumeData, error) {
	section := &next.Sections[idx]

	switch mod.Field {
	case "title":
		value, err := decodeString(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("section title value: %w", err)
		}
		section.Title = value
		return next, nil

	case "content":
		if section.Content.Kind == types.ContentItems {
			return types.ResumeData{}, fmt.Errorf("content update targets an itemized section; use item operations")
		}
		value, err := decodeString(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("section content value: %w", err)
		}
		section.Content = types.TextContent(value)
		return next, nil

	case "preferredColumn":
		value, err := decodeString(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("section preferredColumn value: %w", err)
		}
		// Anything other than the two column names is ignored, not an error.
		if value == types.ColumnSidebar || value == types.ColumnMain {
			section.PreferredColumn = value
		}
		return next, nil

	default:
		return types.ResumeData{}, fmt.Errorf("unknown section field %q", mod.Field)
	}
}

func applyItem(data types.ResumeData, mod types.ResumeModification) (types.ResumeData, error) {
	next := data.Clone()

	sectionIdx, err := requireIndex(mod.SectionIndex, "sectionIndex", len(next.Sections))
	if err != nil {
		return types.ResumeData{}, err
	}
	section := &next.Sections[sectionIdx]
	if section.Content.Kind != types.ContentItems {
		return types.ResumeData{}, fmt.Errorf("section %d has narrative content; item operations rejected", sectionIdx)
	}
	items := section.Content.Items

	switch mod.Action {
	case types.ActionAdd:
		var item types.ResumeItem
		if err := decodeValue(mod.Value, &item); err != nil {
			return types.ResumeData{}, fmt.Errorf("item add value: %w", err)
		}
		section.Content.Items = append(items, item)
		return next, nil

	case types.ActionDelete:
		idx, err := requireIndex(mod.ItemIndex, "itemIndex", len(items))
		if err != nil {
			return types.ResumeData{}, err
		}
		section.Content.Items = append(items[:idx], items[idx+1:]...)
		return next, nil

	case types.ActionMove:
		from, err := requireIndex(mod.ItemIndex, "itemIndex", len(items))
		if err != nil {
			return types.ResumeData{}, err
		}
		if mod.ToIndex == nil {
			return types.ResumeData{}, fmt.Errorf("item move requires toIndex")
		}
		section.Content.Items = moveElement(items, from, *mod.ToIndex)
		return next, nil

	case types.ActionUpdate:
		idx, err := requireIndex(mod.ItemIndex, "itemIndex", len(items))
		if err != nil {
			return types.ResumeData{}, err
		}
		return updateItemField(next, &items[idx], mod)

	case types.ActionReplace:
		idx, err := requireIndex(mod.ItemIndex, "itemIndex", len(items))
		if err != nil {
			return types.ResumeData{}, err
		}
		var item types.ResumeItem
		if err := decodeValue(mod.Value, &item); err != nil {
			return types.ResumeData{}, fmt.Errorf("item replace value: %w", err)
		}
		items[idx] = item
		return next, nil

	default:
		return types.ResumeData{}, fmt.Errorf("action %q not supported for item", mod.Action)
	}
}

func updateItemField(next types.ResumeData, item *types.ResumeItem, mod types.ResumeModification) (types.ResumeData, error) {
	if mod.Field == "bullets" {
		bullets, err := decodeBullets(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("item bullets value: %w", err)
		}
		item.Bullets = bullets
		return next, nil
	}

	value, err := decodeString(mod.Value)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("item %s value: %w", mod.Field, err)
	}
	switch mod.Field {
	case "title":
		item.Title = value
	case "subtitle":
		item.Subtitle = value
	case "date":
		item.Date = value
	case "description":
		item.Description = value
	default:
		return types.ResumeData{}, fmt.Errorf("unknown item field %q", mod.Field)
	}
	return next, nil
}

func applyBullet(data types.ResumeData, mod types.ResumeModification) (types.ResumeData, error) {
	next := data.Clone()

	sectionIdx, err := requireIndex(mod.SectionIndex, "sectionIndex", len(next.Sections))
	if err != nil {
		return types.ResumeData{}, err
	}
	section := &next.Sections[sectionIdx]
	if section.Content.Kind != types.ContentItems {
		return types.ResumeData{}, fmt.Errorf("section %d has narrative content; bullet operations rejected", sectionIdx)
	}

	itemIdx, err := requireIndex(mod.ItemIndex, "itemIndex", len(section.Content.Items))
	if err != nil {
		return types.ResumeData{}, err
	}
	item := &section.Content.Items[itemIdx]
	if item.Bullets == nil {
		item.Bullets = types.BulletList{}
	}

	switch mod.Action {
	case types.ActionAdd:
		bullet, err := decodeBullet(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("bullet add value: %w", err)
		}
		item.Bullets = append(item.Bullets, bullet)
		return next, nil

	case types.ActionDelete:
		idx, err := requireIndex(mod.BulletIndex, "bulletIndex", len(item.Bullets))
		if err != nil {
			return types.ResumeData{}, err
		}
		item.Bullets = append(item.Bullets[:idx], item.Bullets[idx+1:]...)
		return next, nil

	case types.ActionMove:
		from, err := requireIndex(mod.BulletIndex, "bulletIndex", len(item.Bullets))
		if err != nil {
			return types.ResumeData{}, err
		}
		if mod.ToIndex == nil {
			return types.ResumeData{}, fmt.Errorf("bullet move requires toIndex")
		}
		item.Bullets = moveElement(item.Bullets, from, *mod.ToIndex)
		return next, nil

	case types.ActionUpdate, types.ActionReplace:
		idx, err := requireIndex(mod.BulletIndex, "bulletIndex", len(item.Bullets))
		if err != nil {
			return types.ResumeData{}, err
		}
		bullet, err := decodeBullet(mod.Value)
		if err != nil {
			return types.ResumeData{}, fmt.Errorf("bullet value: %w", err)
		}
		item.Bullets[idx] = bullet
		return next, nil

	default:
		return types.ResumeData{}, fmt.Errorf("action %q not supported for bullet", mod.Action)
	}
}

// setPersonalInfoField assigns a personal-info field by its wire name.
func setPersonalInfoField(info *types.PersonalInfo, field, value string) error {
	switch field {
	case "name":
		info.Name = value
	case "title":
		info.Title = value
	case "email":
		info.Email = value
	case "phone":
		info.Phone = value
	case "location":
		info.Location = value
	case "linkedin":
		info.LinkedIn = value
	case "website":
		info.Website = value
	default:
		return fmt.Errorf("unknown personalInfo field %q", field)
	}
	return nil
}

// requireIndex validates a positional index against the current length.
// A missing or out-of-range index no-ops the single operation.
func requireIndex(idx *int, name string, length int) (int, error) {
	if idx == nil {
		return 0, fmt.Errorf("missing %s", name)
	}
	if *idx < 0 || *idx >= length {
		return 0, fmt.Errorf("%s %d out of range [0,%d)", name, *idx, length)
	}
	return *idx, nil
}

// moveElement relocates list[from] using standard remove-then-insert
// semantics: the element is removed, and toIndex addresses an insertion
// position in the shortened list, clamped to its bounds. Moving 0 to 4 in a
// five-element list places the element last.
func moveElement[T any](list []T, from, to int) []T {
	elem := list[from]
	rest := append(append([]T{}, list[:from]...), list[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}

	out := make([]T, 0, len(list))
	out = append(out, rest[:to]...)
	out = append(out, elem)
	out = append(out, rest[to:]...)
	return out
}
