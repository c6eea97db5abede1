/*
Copyright © 2026 the amscrown authors.
This file is part of amscrown.

amscrown is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

amscrown is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with amscrown.  If not, see <http://www.gnu.org/licenses/>.
*/

package amscrown

import "errors"

// ErrInvalidConfig is returned (wrapped) when a Configuration fails
// validation. It is reported before any tile is dispatched.
var ErrInvalidConfig = errors.New("amscrown: invalid configuration")

// ErrWorkerPanic is returned (wrapped) when a worker goroutine recovers
// from a panic while processing a tile. Remaining in-flight workers are
// allowed to finish, but no new tiles are dispatched.
var ErrWorkerPanic = errors.New("amscrown: worker panic")
