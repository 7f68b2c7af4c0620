package evidence

import "crypto/sha256"

// merkleRoot computes an RFC 6962 Merkle tree hash over leafHashes (the
// hashes of the evidence entries, in order). An empty input returns the hash
// of an empty string, matching the RFC 6962 convention for an empty tree.
func merkleRoot(leaves [][]byte) []byte {
	if len(leaves) == 0 {
		h := sha256.Sum256(nil)
		return h[:]
	}
	hashed := make([][]byte, len(leaves))
	for i, l := range leaves {
		hashed[i] = leafHash(l)
	}
	return subtreeHash(hashed)
}

func leafHash(data []byte) []byte {
	h := sha256.New()
	h.Write([]byte{0x00})
	h.Write(data)
	return h.Sum(nil)
}

func nodeHash(left, right []byte) []byte {
	h := sha256.New()
	h.Write([]byte{0x01})
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}

func subtreeHash(leafHashes [][]byte) []byte {
	n := len(leafHashes)
	if n == 1 {
		return leafHashes[0]
	}
	k := largestPowerOfTwoLessThan(n)
	left := subtreeHash(leafHashes[:k])
	right := subtreeHash(leafHashes[k:])
	return nodeHash(left, right)
}

// largestPowerOfTwoLessThan returns the largest power of two strictly less
// than n, per RFC 6962's split point definition.
func largestPowerOfTwoLessThan(n int) int {
	k := 1
	for k<<1 < n {
		k <<= 1
	}
	return k
}
