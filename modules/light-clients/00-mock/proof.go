package mock

import (
	"crypto/sha256"
)

// absentValue is hashed in place of a value when proving absence.
var absentValue = []byte("absent")

// CommitmentProof returns the mock proof that value is stored under path. The
// path must carry the commitment prefix of the proving chain.
func CommitmentProof(path, value []byte) []byte {
	return digest(path, value)
}

// AbsenceProof returns the mock proof that nothing is stored under path.
func AbsenceProof(path []byte) []byte {
	return digest(path, absentValue)
}

func digest(path, value []byte) []byte {
	hasher := sha256.New()
	hasher.Write(path)
	hasher.Write(value)
	return hasher.Sum(nil)
}
