//go:build !amd64 || noasm

package avx

const asmAvailable = false
