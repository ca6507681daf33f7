package calls

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
)

func ownerOfABI(t *testing.T) *abi.Method {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(erc721ABIJSON))
	require.NoError(t, err)
	method := parsed.Methods["ownerOf"]
	return &method
}

func TestContractCall_AlignComparatorValue_ChecksumsDifferentlyCasedAddress(t *testing.T) {
	call := ContractCall{FunctionABI: ownerOfABI(t), Method: "ownerOf"}
	const raw = "0x742d35cc6634c0532925a3b844bc454e4438f44e"
	lowercase := value.String(strings.ToLower(raw))
	checksum := common.HexToAddress(raw).Hex()

	aligned := call.AlignComparatorValue(lowercase)

	s, ok := aligned.AsString()
	require.True(t, ok)
	assert.Equal(t, checksum, s)
	assert.NotEqual(t, strings.ToLower(raw), s, "alignment must actually checksum-case the address, not leave it lowercase")
}

func TestContractCall_AlignComparatorValue_IgnoresNonAddressOutput(t *testing.T) {
	call := ContractCall{StandardContractType: "ERC20", Method: "balanceOf"}
	expected := value.Int(100)

	aligned := call.AlignComparatorValue(expected)

	assert.Equal(t, expected, aligned)
}

func TestContractCall_AlignComparatorValue_LeavesNonAddressStringUnchanged(t *testing.T) {
	call := ContractCall{FunctionABI: ownerOfABI(t), Method: "ownerOf"}
	expected := value.String("not-an-address")

	aligned := call.AlignComparatorValue(expected)

	assert.Equal(t, expected, aligned)
}
