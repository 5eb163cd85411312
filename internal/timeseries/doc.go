// Package timeseries provides the in-memory table that backs the QC engine.
//
// A Table holds one float64 column per tracked parameter, indexed by a
// strictly increasing timestamp column. Missing observations are represented
// as NaN so that downstream statistics can skip them without bookkeeping.
// Tables are loaded from delimited files and are read-only once constructed;
// the QC engine builds its reports in separate structures.
package timeseries
