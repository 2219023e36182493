// Copyright 2022 RelationalAI, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"context"
	"slices"

	"github.com/pkg/errors"
)

// Link ties a view to the source it was built from and holds the source
// record of every key the view was built with. Derived views share the link
// of the view they were derived from.
type Link[K Key, R any] struct {
	src     Source[K, R]
	records map[K]R
}

func newLink[K Key, R any](ctx context.Context, src Source[K, R]) (*Link[K, R], error) {
	recs, err := src.Iterate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "iterate records")
	}
	records := make(map[K]R, len(recs))
	for _, rec := range recs {
		k, err := src.KeyOf(rec)
		if err != nil {
			return nil, err
		}
		records[k] = rec
	}
	return &Link[K, R]{src: src, records: records}, nil
}

func (l *Link[K, R]) Source() Source[K, R] {
	return l.src
}

func (l *Link[K, R]) Len() int {
	return len(l.records)
}

func (l *Link[K, R]) Has(key K) bool {
	_, ok := l.records[key]
	return ok
}

// Record returns the record of key, or a *LookupError.
func (l *Link[K, R]) Record(key K) (R, error) {
	rec, ok := l.records[key]
	if !ok {
		return rec, &LookupError{Key: key}
	}
	return rec, nil
}

// Keys returns the linked keys in ascending order.
func (l *Link[K, R]) Keys() []K {
	keys := make([]K, 0, len(l.records))
	for k := range l.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
