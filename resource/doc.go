// Package resource shares process-wide limits between clustering runs.
//
// A Controller bounds the number of partition workers running at the same
// time across all engines that share it, and throttles model store IO.
// A nil *Controller imposes no limits.
package resource
