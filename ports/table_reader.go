package ports

import (
	"goanova/domain/dataset"
)

// TableReader loads a tabular data source into a Frame for projection into
// observation and factor-assignment vectors.
type TableReader interface {
	ReadData() (*dataset.Frame, error)
}
