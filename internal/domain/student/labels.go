package student

// LabelMap maps internal column identifiers to display labels.
type LabelMap map[string]string

// DisplayLabels covers every column of the 'alunos' table.
var DisplayLabels = LabelMap{
	ColumnName:          "Nome",
	ColumnStatus:        "Situação",
	ColumnScholarship:   "Bolsa",
	ColumnPerformance:   "Aproveitamento",
	ColumnCohort:        "Ano de Ingresso",
	ColumnEmployment:    "Situação de Trabalho",
	ColumnMaritalStatus: "Situação Civil",
	ColumnDescription:   "Descrição",
	ColumnLatitude:      "Latitude",
	ColumnLongitude:     "Longitude",
}

// Label returns the display label for column, or column itself when unmapped.
func (m LabelMap) Label(column string) string {
	if label, ok := m[column]; ok {
		return label
	}
	return column
}

// Labels maps every column in order.
func (m LabelMap) Labels(columns []string) []string {
	labels := make([]string, len(columns))
	for i, c := range columns {
		labels[i] = m.Label(c)
	}
	return labels
}

// Rename returns a copy of fields keyed by display label.
func (m LabelMap) Rename(fields map[string]string) map[string]string {
	renamed := make(map[string]string, len(fields))
	for k, v := range fields {
		renamed[m.Label(k)] = v
	}
	return renamed
}

// Inverse maps display labels back to column identifiers.
func (m LabelMap) Inverse() LabelMap {
	inv := make(LabelMap, len(m))
	for k, v := range m {
		inv[v] = k
	}
	return inv
}

// HoverColumns are shown in the map tooltip after the student's name.
var HoverColumns = []string{
	ColumnStatus,
	ColumnScholarship,
	ColumnPerformance,
	ColumnCohort,
	ColumnEmployment,
	ColumnMaritalStatus,
	ColumnDescription,
}
