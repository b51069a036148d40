/*
Package workers sizes worker pools for annotation indexing and auditing.

Sizes are derived from GOMAXPROCS, which Go sets from the container CPU
limit, so a pod limited to 2 CPUs on a 64-core node gets 2 or 3 workers
rather than 64:

	n := workers.ForMixed(8) // 1.5 per CPU, at most 8

Operators can pin the count with ANNOTATION_WORKERS:

	env:
	- name: ANNOTATION_WORKERS
	  value: "4"
*/
package workers
