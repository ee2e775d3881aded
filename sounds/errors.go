// SPDX-License-Identifier: EPL-2.0

package sounds

import "errors"

// ErrDuplicateID indicates two sounds registered under one ID.
var ErrDuplicateID = errors.New("duplicate sound ID")
