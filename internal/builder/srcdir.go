// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import "path/filepath"

// joinSrcdir normalizes the join of the directory containing moduleFile and
// the relative path rel, ported from on_srcdir's
// os.path.normpath(os.path.join(os.path.dirname(...), node.srcdir)).
func joinSrcdir(moduleFile, rel string) string {
	return filepath.Clean(filepath.Join(filepath.Dir(moduleFile), rel))
}
