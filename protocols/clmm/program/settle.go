package program

import (
	"context"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
)

// settlement describes the token movements of one pool swap.
type settlement struct {
	authority          solana.PublicKey
	tokenOwnerAccountA solana.PublicKey
	tokenOwnerAccountB solana.PublicKey
	hookAccountsA      []solana.PublicKey
	hookAccountsB      []solana.PublicKey
	memo               string
}

// settleSwap applies update to the pool, writes the pool and its tick arrays
// back, and moves the input from the owner to the vault and the output from
// the vault to the owner.
func (p *Program) settleSwap(
	ctx context.Context,
	tx store.Tx,
	acc *swapAccounts,
	s settlement,
	update clmm.PostSwapUpdate,
	aToB bool,
	timestamp uint64,
) error {
	pool := acc.pool
	if err := pool.UpdateAfterSwap(update, aToB, timestamp); err != nil {
		return err
	}
	if err := storePool(ctx, tx, pool, acc.arrays); err != nil {
		return err
	}

	type side struct {
		owner, vault, mint solana.PublicKey
		amount             uint64
		hooks              []solana.PublicKey
	}
	a := side{s.tokenOwnerAccountA, pool.TokenVaultA, pool.TokenMintA, update.AmountA, s.hookAccountsA}
	b := side{s.tokenOwnerAccountB, pool.TokenVaultB, pool.TokenMintB, update.AmountB, s.hookAccountsB}
	in, out := b, a
	if aToB {
		in, out = a, b
	}

	epoch := p.clock.Epoch()
	deposit := token.Transfer{
		Source:       in.owner,
		Destination:  in.vault,
		Mint:         in.mint,
		Authority:    s.authority,
		Amount:       in.amount,
		HookAccounts: in.hooks,
		Epoch:        epoch,
	}
	withdraw := token.Transfer{
		Source:       out.vault,
		Destination:  out.owner,
		Mint:         out.mint,
		Authority:    pool.Address,
		Amount:       out.amount,
		Memo:         s.memo,
		HookAccounts: out.hooks,
		Epoch:        epoch,
	}

	if _, err := p.token.Transfer(ctx, tx, deposit); err != nil {
		return err
	}
	if _, err := p.token.Transfer(ctx, tx, withdraw); err != nil {
		return err
	}
	p.metrics.ticksCrossed.Observe(float64(update.TicksCrossed))
	return nil
}

// twoHopSettlement describes the token movements of a two-hop swap.
type twoHopSettlement struct {
	authority               solana.PublicKey
	tokenOwnerAccountInput  solana.PublicKey
	tokenOwnerAccountOutput solana.PublicKey
	hooks                   clmm.ParsedRemainingAccounts
}

// settleTwoHop commits both pools and performs the three transfers of a
// route: owner to the first vault, first vault to second vault, second vault
// to owner. It returns the intermediate amount that reached the second vault.
func (p *Program) settleTwoHop(
	ctx context.Context,
	tx store.Tx,
	acc *twoHopAccounts,
	s twoHopSettlement,
	updateOne, updateTwo clmm.PostSwapUpdate,
	aToBOne, aToBTwo bool,
	timestamp uint64,
) (token.AmountWithFee, error) {
	one, two := acc.one.pool, acc.two.pool
	if err := one.UpdateAfterSwap(updateOne, aToBOne, timestamp); err != nil {
		return token.AmountWithFee{}, err
	}
	if err := two.UpdateAfterSwap(updateTwo, aToBTwo, timestamp); err != nil {
		return token.AmountWithFee{}, err
	}
	if err := storePool(ctx, tx, one, acc.one.arrays); err != nil {
		return token.AmountWithFee{}, err
	}
	if err := storePool(ctx, tx, two, acc.two.arrays); err != nil {
		return token.AmountWithFee{}, err
	}

	epoch := p.clock.Epoch()
	transfers := []token.Transfer{
		{
			Source:       s.tokenOwnerAccountInput,
			Destination:  one.InputTokenVault(aToBOne),
			Mint:         acc.mintInput.Address,
			Authority:    s.authority,
			Amount:       updateOne.InputAmount(aToBOne),
			HookAccounts: s.hooks.TransferHookInput,
			Epoch:        epoch,
		},
		{
			Source:       one.OutputTokenVault(aToBOne),
			Destination:  two.InputTokenVault(aToBTwo),
			Mint:         acc.mintIntermediate.Address,
			Authority:    one.Address,
			Amount:       updateOne.OutputAmount(aToBOne),
			Memo:         token.MemoSwap,
			HookAccounts: s.hooks.TransferHookIntermediate,
			Epoch:        epoch,
		},
		{
			Source:       two.OutputTokenVault(aToBTwo),
			Destination:  s.tokenOwnerAccountOutput,
			Mint:         acc.mintOutput.Address,
			Authority:    two.Address,
			Amount:       updateTwo.OutputAmount(aToBTwo),
			Memo:         token.MemoSwap,
			HookAccounts: s.hooks.TransferHookOutput,
			Epoch:        epoch,
		},
	}

	var intermediate token.AmountWithFee
	for i, t := range transfers {
		received, err := p.token.Transfer(ctx, tx, t)
		if err != nil {
			return token.AmountWithFee{}, err
		}
		if i == 1 {
			intermediate = received
		}
	}
	p.metrics.ticksCrossed.Observe(float64(updateOne.TicksCrossed))
	p.metrics.ticksCrossed.Observe(float64(updateTwo.TicksCrossed))
	return intermediate, nil
}
