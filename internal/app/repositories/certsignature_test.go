package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureOf_OrderIndependent(t *testing.T) {
	a := []CertKey{
		{CourseName: "CPR", CertDate: "2024-01-10", Status: "Pass"},
		{CourseName: "First Aid", CertDate: "2024-02-01", Status: "Pass"},
		{CourseName: "Nutrition", CertDate: "2024-03-15", Status: "Pass"},
	}
	b := []CertKey{a[2], a[0], a[1]}

	assert.Equal(t, SignatureOf(a), SignatureOf(b))
}

func TestSignatureOf_DetectsDifferences(t *testing.T) {
	base := []CertKey{
		{CourseName: "CPR", CertDate: "2024-01-10", Status: "Pass"},
	}

	changedDate := []CertKey{
		{CourseName: "CPR", CertDate: "2024-01-11", Status: "Pass"},
	}
	changedStatus := []CertKey{
		{CourseName: "CPR", CertDate: "2024-01-10", Status: "Fail"},
	}
	extraRow := []CertKey{
		base[0],
		{CourseName: "First Aid", CertDate: "2024-02-01", Status: "Pass"},
	}

	assert.NotEqual(t, SignatureOf(base), SignatureOf(changedDate))
	assert.NotEqual(t, SignatureOf(base), SignatureOf(changedStatus))
	assert.NotEqual(t, SignatureOf(base), SignatureOf(extraRow))
}

func TestSignatureOf_Empty(t *testing.T) {
	assert.Equal(t, "", SignatureOf(nil))
	assert.Equal(t, "", SignatureOf([]CertKey{}))
}
