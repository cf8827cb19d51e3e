// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package inference loads the pre-trained classifier artifacts and evaluates them.

Two artifact kinds are supported:

  - Forest: a tree ensemble exported to JSON (one node array per tree, the
    same layout scikit-learn keeps in tree_). PredictProba averages each
    tree's normalized leaf distribution.
  - ONNXClassifier: an image model run through onnxruntime. The shared
    library path comes from configuration.

LabelEncoder maps class indices back to crop names.

Artifacts are loaded independently; a missing file only disables the entry
point that needs it.
*/
package inference
