/*
Copyright 2024 giv2giv Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package giv2giv

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OnBatchComplete receives the platform fee and the rounding residual of one
// allocation batch. Disposition (a matching pool, reinvestment) has no agreed
// business rule yet, so the amounts are only logged; the hook is still
// invoked exactly once per batch so future policy can land here without
// touching the allocator.
func (g *Giv2Giv) OnBatchComplete(_ context.Context, fee, residual decimal.Decimal) {
	logrus.Infof("allocation batch complete: fee=%s residual=%s", fee, residual)
}
