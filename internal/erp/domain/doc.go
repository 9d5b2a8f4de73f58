// Package domain holds the ERP's entities and the rules that only depend on
// their own fields: status transition tables, money rounding, line totals
// and the reverse-charge test. Persistence and orchestration live in store
// and service.
package domain
