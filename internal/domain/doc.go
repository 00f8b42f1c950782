// Package domain contains the core business entities of the task manager:
// users, tasks, tags and password resets, together with the validation rules
// that apply to them regardless of how they are stored or delivered.
package domain
