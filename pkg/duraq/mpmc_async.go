package duraq

import (
	"context"

	"github.com/duraq-io/duraq/internal/async"
)

// NextResult carries an async Next outcome.
type NextResult struct {
	Items   [][]byte
	HasMore bool
}

// AddHandle resolves to the sequences assigned by an async add.
type AddHandle = async.Handle[[]uint64]

// NextHandle resolves to the batch delivered by an async next.
type NextHandle = async.Handle[NextResult]

// LabelsHandle resolves to the live labels of an async labels call.
type LabelsHandle = async.Handle[[]string]

// RemoveLabelHandle resolves to whether the removed label existed.
type RemoveLabelHandle = async.Handle[bool]

// AddAsync submits an append to the log's worker and returns immediately.
// Appends submitted from one goroutine are applied in submission order.
func (l *Log) AddAsync(ctx context.Context, items [][]byte) *AddHandle {
	h := async.NewHandle[[]uint64]()
	err := l.worker.Submit(func() {
		seqs, err := l.l.Add(ctx, items, 0)
		if err != nil {
			h.Fail(mapErr(err))
			return
		}
		h.Resolve(seqs)
	})
	if err != nil {
		h.Fail(ErrClosed)
	}
	return h
}

// NextAsync submits a read for label and returns immediately.
func (l *Log) NextAsync(ctx context.Context, label string, start StartPosition, max int) *NextHandle {
	h := async.NewHandle[NextResult]()
	if label == "" {
		h.Fail(ErrNotFound)
		return h
	}
	err := l.worker.Submit(func() {
		items, hasMore, err := l.l.Next(ctx, label, start, max, 0)
		if err != nil {
			h.Fail(mapErr(err))
			return
		}
		h.Resolve(NextResult{Items: items, HasMore: hasMore})
	})
	if err != nil {
		h.Fail(ErrClosed)
	}
	return h
}

// LabelsAsync submits a labels listing and returns immediately.
func (l *Log) LabelsAsync(ctx context.Context) *LabelsHandle {
	h := async.NewHandle[[]string]()
	err := l.worker.Submit(func() {
		labels, err := l.l.Labels(ctx, 0)
		if err != nil {
			h.Fail(mapErr(err))
			return
		}
		h.Resolve(labels)
	})
	if err != nil {
		h.Fail(ErrClosed)
	}
	return h
}

// RemoveLabelAsync submits a label removal and returns immediately.
func (l *Log) RemoveLabelAsync(ctx context.Context, label string) *RemoveLabelHandle {
	h := async.NewHandle[bool]()
	if label == "" {
		h.Fail(ErrNotFound)
		return h
	}
	err := l.worker.Submit(func() {
		existed, err := l.l.RemoveLabel(ctx, label)
		if err != nil {
			h.Fail(mapErr(err))
			return
		}
		h.Resolve(existed)
	})
	if err != nil {
		h.Fail(ErrClosed)
	}
	return h
}
