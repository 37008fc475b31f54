package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/services"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Minimal read surface of the PetNFT contract. The backend never signs
// transactions; minting, feeding on-chain and purchases go through the
// user's wallet.
const petNFTABI = `[
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"mintPrice","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"getPet","outputs":[{"name":"level","type":"uint8"},{"name":"energy","type":"uint8"},{"name":"tier","type":"string"},{"name":"imageURI","type":"string"},{"name":"name","type":"string"}],"stateMutability":"view","type":"function"}
]`

// Client reads the PetNFT contract over JSON-RPC.
type Client struct {
	eth      *ethclient.Client
	contract common.Address
	abi      abi.ABI
	timeout  time.Duration
}

func NewClient(rpcURL, contractAddress string) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeChainRead,
			fmt.Sprintf("failed to connect to RPC: %s", rpcURL), err)
	}

	parsed, err := abi.JSON(strings.NewReader(petNFTABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PetNFT ABI: %w", err)
	}

	return &Client{
		eth:      eth,
		contract: common.HexToAddress(contractAddress),
		abi:      parsed,
		timeout:  10 * time.Second,
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: input,
	}, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeChainRead,
			fmt.Sprintf("contract call %s failed", method), err)
	}

	return c.abi.Unpack(method, output)
}

// OwnerOf returns the current owner of a token, lowercased. Nonexistent
// tokens revert on-chain and surface here as a chain-read error.
func (c *Client) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	out, err := c.call(ctx, "ownerOf", big.NewInt(tokenID))
	if err != nil {
		return "", err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("unexpected ownerOf output type %T", out[0])
	}
	return strings.ToLower(addr.Hex()), nil
}

// BalanceOf returns how many pets a wallet holds.
func (c *Client) BalanceOf(ctx context.Context, owner string) (int64, error) {
	out, err := c.call(ctx, "balanceOf", common.HexToAddress(owner))
	if err != nil {
		return 0, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected balanceOf output type %T", out[0])
	}
	return balance.Int64(), nil
}

// MintPrice returns the current mint price in FROTH wei.
func (c *Client) MintPrice(ctx context.Context) (*big.Int, error) {
	out, err := c.call(ctx, "mintPrice")
	if err != nil {
		return nil, err
	}
	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected mintPrice output type %T", out[0])
	}
	return price, nil
}

// GetPet reads the on-chain pet attributes. The chain's energy value is a
// mint-time default; off-chain energy supersedes it everywhere except the
// first time a pet is seen.
func (c *Client) GetPet(ctx context.Context, tokenID int64) (*services.ChainPetView, error) {
	out, err := c.call(ctx, "getPet", big.NewInt(tokenID))
	if err != nil {
		return nil, err
	}
	if len(out) != 5 {
		return nil, fmt.Errorf("unexpected getPet output arity %d", len(out))
	}

	level, _ := out[0].(uint8)
	energy, _ := out[1].(uint8)
	tier, _ := out[2].(string)
	imageURI, _ := out[3].(string)
	name, _ := out[4].(string)

	return &services.ChainPetView{
		Level:    int(level),
		Energy:   int(energy),
		Tier:     strings.ToLower(tier),
		ImageURI: imageURI,
		Name:     name,
	}, nil
}

// Transfer is one ERC-721 Transfer event from the PetNFT contract.
type Transfer struct {
	From    string
	To      string
	TokenID int64
	Block   uint64
}

// LatestBlock returns the head block number.
func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, apperrors.New(apperrors.CodeChainRead, "failed to fetch latest block", err)
	}
	return header.Number.Uint64(), nil
}

// TransferLogs scans a block range for Transfer events on the PetNFT
// contract. RPC providers commonly cap ranges around 10k blocks; callers
// page accordingly.
func (c *Client) TransferLogs(ctx context.Context, fromBlock, toBlock uint64) ([]Transfer, error) {
	transferSig := crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

	logs, err := c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{transferSig}},
	})
	if err != nil {
		return nil, apperrors.New(apperrors.CodeChainRead, "failed to filter Transfer events", err)
	}

	transfers := make([]Transfer, 0, len(logs))
	for _, entry := range logs {
		// ERC-721 Transfer has all three params indexed.
		if len(entry.Topics) < 4 {
			continue
		}
		transfers = append(transfers, Transfer{
			From:    strings.ToLower(common.BytesToAddress(entry.Topics[1].Bytes()).Hex()),
			To:      strings.ToLower(common.BytesToAddress(entry.Topics[2].Bytes()).Hex()),
			TokenID: new(big.Int).SetBytes(entry.Topics[3].Bytes()).Int64(),
			Block:   entry.BlockNumber,
		})
	}
	return transfers, nil
}

var _ services.ChainReader = (*Client)(nil)
