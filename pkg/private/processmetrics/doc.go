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

// Package processmetrics exports the scheduling time of the router process.
//
// The running time is the CPU time all threads of the process consumed. The
// runnable time is the time threads were ready to run but waited for a core.
// Together with the number of cores the Go runtime uses, they give the CPU
// time the scheduler made available to the packet processors:
//
//	ila_go_maxprocs_threads - rate(ila_process_runnable_seconds_total[1m])
//
// Packets forwarded per available CPU second is then:
//
//	rate(router_output_pkts_total[1m])
//	  / on (instance, job) group_left ()
//	(ila_go_maxprocs_threads - rate(ila_process_runnable_seconds_total[1m]))
//
// Only Linux is supported. On other systems Init does nothing.
package processmetrics
