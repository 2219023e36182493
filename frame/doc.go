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

// Package frame builds data frames from lazy record sources and keeps each
// frame linked to the records its rows came from.
//
// A View embeds a gota dataframe.DataFrame whose index column holds the
// primary keys of the source records. Columns are declared with Field
// (projected by the source in one batch), Prop (a dotted path evaluated on
// every record) and Meth (a method called on every record):
//
//	v, err := frame.NewView[int, *Person](ctx, src,
//		frame.Field("name"),
//		frame.Prop("address.city").As("city"),
//		frame.Meth("Greet"))
//
// Operations that return a new frame, eg. Filter or Select, return a View
// that shares the link of the view they were called on. AddCol computes new
// columns from rows, or from the linked records when the rows are not
// enough, and ToSource maps the rows of a view back to a source.
package frame
