// Package cli is the cvtrack command tree.
//
// Every command works on the same record store. The shell command keeps the
// store open, runs the background scanner, and accepts the other commands
// line by line:
//
//	cvtrack shell
//	cvtrack> list --radar stalled
//	cvtrack> status 14-03-25_Acme_Corp "In Process"
//	cvtrack> exit
//
// Failed edits print the error and leave the store unchanged.
package cli
