// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

const logSample = `
[log.console]
# Console logging level (debug|info|error). (default info)
level = "info"

# Console logging format (human|json). (default human)
format = "human"

# Level from which stack traces are logged (debug|info|error|none). (default none)
stacktrace_level = "none"
`

const routerSample = `
# The number of goroutines translating packets. (default GOMAXPROCS)
num_processors = 8

# The maximum number of packets processed as one vector. (default 256)
batch_size = 256

# The number of packet trace records kept. (default 1024)
trace_limit = 1024
`

const ilaSample = `
# The number of buckets of the identifier index, rounded up to a power of
# two. (default 65536)
lookup_table_buckets = 65536

# The memory budget of the entry table in bytes. It bounds the number of
# entries. (default 33554432)
lookup_table_size = 33554432
`

const kernelSample = `
# Mirror the host routes of local entries into the kernel, pointing at this
# device. If not set, no routes are mirrored. (default "")
device = ""
`
