package services

import (
	"math"

	"github.com/yukikurage/threads-api/internal/constants"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
)

// pageOffset turns a 1-based page into a row offset. pageNumber*pageSize
// must fit in an int so offset+len(page) cannot wrap.
func pageOffset(op string, pageNumber, pageSize int) (int, error) {
	if pageNumber < 1 || pageSize < 1 {
		return 0, apierrors.Newf(apierrors.ErrValidation, op,
			"page number and page size must be positive, got %d and %d", pageNumber, pageSize)
	}
	if pageNumber > constants.MaxPageNumber || pageNumber > math.MaxInt/pageSize {
		return 0, apierrors.Newf(apierrors.ErrValidation, op,
			"page number %d is out of range for page size %d", pageNumber, pageSize)
	}
	return (pageNumber - 1) * pageSize, nil
}
