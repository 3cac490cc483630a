package runtime

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/solclout/solclout/pkg/solana"
)

// Host executes instructions against an in-memory set of transaction
// accounts. Execution is single threaded and non-preemptible: one instruction
// runs to completion before the next is observed, and a failed top-level
// instruction leaves no mutation behind.
type Host struct {
	programs map[string]Program
	accounts map[string]*AccountInfo
	order    []string
}

func NewHost() *Host {
	return &Host{
		programs: make(map[string]Program),
		accounts: make(map[string]*AccountInfo),
	}
}

func (h *Host) Register(p Program) {
	h.programs[string(p.ID())] = p
}

func (h *Host) AddAccount(info *AccountInfo) {
	if _, ok := h.accounts[string(info.Key)]; !ok {
		h.order = append(h.order, string(info.Key))
	}
	h.accounts[string(info.Key)] = info
}

func (h *Host) Account(key ed25519.PublicKey) *AccountInfo {
	return h.accounts[string(key)]
}

// Process executes a top-level instruction. Signer flags on the instruction's
// account metas are taken as verified; signature verification itself is the
// transaction layer's concern. If execution fails, every account is restored
// to its prior state.
func (h *Host) Process(instruction solana.Instruction) error {
	backup := make(map[string]*AccountInfo, len(h.accounts))
	for k, v := range h.accounts {
		backup[k] = v.Clone()
	}

	// Record which accounts signed this transaction; sub-calls check signer
	// privilege against the transaction, not the caller's metas.
	for _, meta := range instruction.Accounts {
		if stored, ok := h.accounts[string(meta.PublicKey)]; ok {
			stored.IsSigner = meta.IsSigner
		}
	}

	err := h.invoke(nil, instruction, nil)
	if err != nil {
		for _, k := range h.order {
			if prior, ok := backup[k]; ok {
				h.accounts[k] = prior
			}
		}
	}
	return err
}

func (h *Host) invoke(caller ed25519.PublicKey, instruction solana.Instruction, derivedSigners []ed25519.PublicKey) error {
	program, ok := h.programs[string(instruction.Program)]
	if !ok {
		return errors.Wrapf(ErrUnknownProgram, "program %x", instruction.Program)
	}

	infos := make([]*AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		stored, ok := h.accounts[string(meta.PublicKey)]
		if !ok {
			return errors.Wrapf(ErrAccountNotFound, "account %x", meta.PublicKey)
		}

		isSigner := meta.IsSigner
		if isSigner && caller != nil {
			// Within a sub-call, signer privilege comes either from the
			// original transaction or from a program derived address the
			// caller proved control of.
			if !stored.IsSigner && !containsKey(derivedSigners, meta.PublicKey) {
				return errors.Wrapf(ErrMissingSignature, "account %x", meta.PublicKey)
			}
		}

		infos[i] = &AccountInfo{
			Key:        stored.Key,
			Owner:      stored.Owner,
			Data:       stored.Data,
			IsSigner:   isSigner,
			IsWritable: meta.IsWritable,
		}
	}

	invoker := &hostInvoker{host: h, program: instruction.Program}
	if err := program.Execute(invoker, infos, instruction.Data); err != nil {
		return err
	}

	// Data slices are shared, but programs that reallocate (or own their
	// account records) write back through the view.
	for i, meta := range instruction.Accounts {
		stored := h.accounts[string(meta.PublicKey)]
		stored.Data = infos[i].Data
		stored.Owner = infos[i].Owner
	}
	return nil
}

// hostInvoker binds the CPI capability to the calling program, so derived
// signer seeds are always resolved against the caller's own identity.
type hostInvoker struct {
	host    *Host
	program ed25519.PublicKey
}

func (inv *hostInvoker) InvokeSigned(instruction solana.Instruction, signerSeeds ...[][]byte) error {
	var derived []ed25519.PublicKey
	for _, seeds := range signerSeeds {
		address, err := solana.CreateProgramAddress(inv.program, seeds...)
		if err != nil {
			return errors.Wrap(err, "invalid signer seeds")
		}
		derived = append(derived, address)
	}
	return inv.host.invoke(inv.program, instruction, derived)
}

func containsKey(keys []ed25519.PublicKey, key ed25519.PublicKey) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}
