package ports

import (
	"datascout/domain/dataset"
)

// DatasetReader ingests an uploaded file into a typed dataset.
type DatasetReader interface {
	Read(path string) (*dataset.Dataset, error)
}
