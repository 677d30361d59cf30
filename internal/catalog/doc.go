// Package catalog normalizes label catalog numbers and generates the ordered
// search variants used for release lookup.
//
// Catalog numbers are printed inconsistently across pressings ("GEFD-24617",
// "GEFD 24617", "GEFD24617" all name the same release), so the search layer
// tries a deduplicated list of spellings rather than trusting any single one.
package catalog
