// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sonata is the overall repository for loading network models in the
SONATA format (HDF5 node and edge tables, CSV type tables, JSON
configuration) and instantiating them on an external NEST-style simulation
kernel.

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* sonata: the network facade that drives the build: it creates node
populations on the kernel, assembles per-edge-file synapse specifications,
and issues the bulk connect and simulate calls.

* config: the JSON configuration resolver, which turns manifest path
variables ($VAR) into absolute paths throughout the configuration tree.

* typetable: whitespace-delimited CSV type tables (node_type_id /
edge_type_id keyed) materialized as etable Tables.

* kernel: the boundary to the external simulation kernel -- the Kernel
interface, entity Groups, and a recording Mock for tests.

* hdf: scoped-open helpers over the HDF5 binding for the small metadata
reads this module performs itself (the kernel does all chunked edge reads).

* examples: runnable programs; examples/tinynet builds and simulates a
generated miniature SONATA model against the Mock kernel.
*/
package sonata
