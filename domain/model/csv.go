package model

import "strings"

// CSVHeader is the column order of exported selections.
var CSVHeader = []string{"ID", "Title", "Description", "Tags", "Category", "Privacy"}

// CSVRow is one exported item. Category holds the display name.
type CSVRow struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Category    string
	Privacy     string
}

// CSVRowFromItem flattens an item. A missing status exports an empty privacy.
func CSVRowFromItem(it *Item) CSVRow {
	return CSVRow{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Tags:        append([]string(nil), it.Tags...),
		Category:    CategoryName(it.CategoryID),
		Privacy:     it.Privacy(),
	}
}

// ApplyCSVRow copies the editable columns onto the item. An unknown category keeps the current one.
func (i *Item) ApplyCSVRow(row CSVRow) {
	i.Title = row.Title
	i.Description = row.Description
	i.Tags = append([]string(nil), row.Tags...)
	// Several ids share a display name, so an unchanged name keeps the current id.
	if !strings.EqualFold(CategoryName(i.CategoryID), strings.TrimSpace(row.Category)) {
		if id, ok := CategoryID(row.Category); ok {
			i.CategoryID = id
		}
	}
	if row.Privacy == "" {
		return
	}
	if i.Status == nil {
		i.Status = &ItemStatus{}
	}
	i.Status.PrivacyStatus = row.Privacy
}
