package domain

// ExportFormat is the target file format of an export.
type ExportFormat string

// Export format constants.
const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
	FormatText     ExportFormat = "text"
	FormatCSV      ExportFormat = "csv"
)

// IsValid checks if the format is one of the supported values.
func (f ExportFormat) IsValid() bool {
	return f == FormatJSON || f == FormatMarkdown || f == FormatText || f == FormatCSV
}

// Extension returns the file extension for the format, without the dot.
func (f ExportFormat) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}
