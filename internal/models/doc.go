// Package models defines the core domain models for ShareBill.
//
// # Models
//
//   - Member: one participant row on the bill roster
//   - BillAccount: the bill-level monetary fields and payer identity
//   - QRCodeItem: an uploaded payment QR image
//
// Participants are identified by name strings; there are no user accounts.
//
// # Design Principles
//
// 1. **Integer money**: all currency fields are in the smallest currency
// unit, so display values never carry fractional cents
// 2. **One canonical schema**: TotalDiscount is the user-entered field,
// TotalPaid is always derived from it
// 3. **Plain data**: models carry no behavior beyond derived accessors, so
// the calculation engine can stay pure
package models
