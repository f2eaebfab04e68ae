// Command gapsplice rebuilds a continuous recording from primary clips and
// gap filler clips named "<start>-<end>.<ext>".
//
//	gapsplice plan      show the reconciled timeline without rendering
//	gapsplice run       trim fillers and concatenate the program
//	gapsplice history   list previous runs
//	gapsplice logs      print or follow a run log
//	gapsplice status    check directories and ffmpeg tools
//	gapsplice config    create or validate the configuration file
package main
