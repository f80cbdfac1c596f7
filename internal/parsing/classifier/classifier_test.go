package classifier

import (
	"testing"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.DocumentType
	}{
		{
			name: "dash report header",
			text: "DASH Report\nMOTILAL DANNILLIAN\nPolicy # 1",
			want: domain.DocumentTypeDASH,
		},
		{
			name: "driver report header",
			text: "DRIVER REPORT\nName: SMITH, JOHN",
			want: domain.DocumentTypeDASH,
		},
		{
			name: "certificate of insurance",
			text: "Certificate of Insurance issued 2021-01-01",
			want: domain.DocumentTypeDASH,
		},
		{
			name: "motor vehicle record",
			text: "ONTARIO MINISTRY OF TRANSPORTATION\nMotor Vehicle Record - 3 Year",
			want: domain.DocumentTypeMVR,
		},
		{
			name: "bare MVR token",
			text: "MVR abstract requested for licence S1234-56789-01234",
			want: domain.DocumentTypeMVR,
		},
		{
			name: "driving record phrase",
			text: "This driving record covers convictions within the last 3 years",
			want: domain.DocumentTypeMVR,
		},
		{
			name: "dash wins when both indicator sets present",
			text: "DASH Report\nincludes the driver's motor vehicle record summary",
			want: domain.DocumentTypeDASH,
		},
		{
			name: "neither",
			text: "quarterly sales figures for Q3",
			want: domain.DocumentTypeUnknown,
		},
		{
			name: "empty",
			text: "",
			want: domain.DocumentTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
