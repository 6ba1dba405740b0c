package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glbter/fund-advisor/entities"
)

func TestLoad_SeedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	funds := c.ListAll()
	require.Len(t, funds, 5)

	names := make([]string, 0, len(funds))
	for i, f := range funds {
		assert.Equal(t, i+1, f.ID)
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		"Axis Bluechip Fund",
		"HDFC Small Cap Fund",
		"ICICI Prudential Equity & Debt Fund",
		"SBI Technology Opportunities Fund",
		"Kotak Debt Hybrid Fund",
	}, names)

	assert.Equal(t, entities.Fund{
		ID:          4,
		Name:        "SBI Technology Opportunities Fund",
		Description: "Focuses on technology sector stocks.",
		Risk:        "High",
		Sector:      "Technology",
		Returns:     19.7,
	}, funds[3])
}

func TestCatalog_ListAllReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	funds := c.ListAll()
	funds[0].Name = "changed"
	_ = append(funds[:1], funds[2:]...)

	again := c.ListAll()
	require.Len(t, again, 5)
	assert.Equal(t, "Axis Bluechip Fund", again[0].Name)
	assert.Equal(t, "HDFC Small Cap Fund", again[1].Name)
}

func TestCatalog_FindByID(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      int
		want    string
		wantErr error
	}{
		{name: "first", id: 1, want: "Axis Bluechip Fund"},
		{name: "last", id: 5, want: "Kotak Debt Hybrid Fund"},
		{name: "zero", id: 0, wantErr: entities.ErrFundNotFound},
		{name: "negative", id: -1, wantErr: entities.ErrFundNotFound},
		{name: "past end", id: 6, wantErr: entities.ErrFundNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.FindByID(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	header := "id,name,description,risk,sector,returns\n"

	tests := []struct {
		name    string
		seed    string
		wantErr string
	}{
		{name: "empty", seed: "", wantErr: "funds seed is empty"},
		{name: "bad id", seed: header + "x,a,b,Low,Debt,1\n", wantErr: "line 2: parse id"},
		{name: "non positive id", seed: header + "0,a,b,Low,Debt,1\n", wantErr: "id must be positive"},
		{name: "bad returns", seed: header + "1,a,b,Low,Debt,abc\n", wantErr: "line 2: parse returns"},
		{name: "duplicate id", seed: header + "1,a,b,Low,Debt,1\n1,c,d,High,Tech,2\n", wantErr: "line 3: duplicate id 1"},
		{name: "wrong column count", seed: header + "1,a,b,Low,Debt,1\n2,a\n", wantErr: "read funds seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.seed))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
