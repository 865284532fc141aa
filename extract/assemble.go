package extract

import (
	"strconv"

	"github.com/use-agent/shelf/models"
)

// Accept promotes c to a record with the given ordinal when it has a title
// and at least one price.
func Accept(c models.ProductCandidate, ordinal int) (models.ProductRecord, bool) {
	if c.Title == "" || !c.HasPrice() {
		return models.ProductRecord{}, false
	}
	return models.ProductRecord{
		ProductID:        strconv.Itoa(ordinal),
		ProductCandidate: c,
	}, true
}

// Assembler collects accepted records, numbering them from 1. Rejected
// candidates do not consume an ordinal.
type Assembler struct {
	next    int
	records []models.ProductRecord
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{next: 1, records: []models.ProductRecord{}}
}

// Add validates c and appends it when accepted.
func (a *Assembler) Add(c models.ProductCandidate) (models.ProductRecord, bool) {
	rec, ok := Accept(c, a.next)
	if !ok {
		return models.ProductRecord{}, false
	}
	a.next++
	a.records = append(a.records, rec)
	return rec, true
}

// Records returns the accepted records in acceptance order; never nil.
func (a *Assembler) Records() []models.ProductRecord {
	return a.records
}
