// Package disruptdb compacts corpora of transit-disruption JSON snapshots
// into a content-addressed database.
//
// A snapshot is one JSON document describing either the current disruptions
// and impacted lines of a transit network, or an upstream API error. Across
// a corpus of snapshots most of the content repeats: the same disruptions,
// lines and stop areas appear in file after file. Disruptdb exploits that by
// interning every leaf value and every repeated sub-object once into a
// bundle of stores, leaving each record as a small tree of 32-bit handles.
//
// # Quick Start
//
//	db := disruptdb.New()
//	ing := ingest.New(db.Stores, ingest.WithWorkers(8))
//	records, stats, err := ing.Run(ctx, inputDirs)
//	db.Records = records
//
//	results, err := persist.SaveAll(db, outputDir)
//
// Every compacted record is verified against its source document before it
// enters the database, and every serialized file is decoded back and checked
// for equality before the run reports success.
package disruptdb
