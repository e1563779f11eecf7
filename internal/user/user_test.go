package user_test

import (
	"encoding/json"

	"github.com/frahmantamala/hr-admin/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User domain", func() {
	It("parses known roles and maps the rest to none", func() {
		Expect(user.ParseRole("RH")).To(Equal(user.RoleRH))
		Expect(user.ParseRole("EMPLOYE")).To(Equal(user.RoleNone))
		Expect(user.ParseRole("")).To(Equal(user.RoleNone))
	})

	It("displays the surname before the first name", func() {
		Expect((&user.User{Nom: "Bernard", Prenom: "Lucie"}).DisplayName()).To(Equal("Bernard Lucie"))
	})

	It("never serialises the password hash", func() {
		raw, err := json.Marshal(&user.User{ID: 1, Username: "cmartin", PasswordHash: "secret-hash"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("secret-hash"))

		raw, err = json.Marshal((&user.User{ID: 1, PasswordHash: "secret-hash"}).ToResponse())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("secret-hash"))
		Expect(string(raw)).To(ContainSubstring(`"permissions":[]`))
	})

	Describe("UpdateUserDTO", func() {
		It("accepts an empty edit", func() {
			Expect(user.UpdateUserDTO{}.Validate()).To(Succeed())
		})

		It("applies only present fields", func() {
			u := &user.User{Nom: "Durand", Prenom: "Paul", Email: "p@example.com", Username: "pdurand"}
			user.UpdateUserDTO{Prenom: strPtr("Pierre")}.Apply(u)
			Expect(u.Nom).To(Equal("Durand"))
			Expect(u.Prenom).To(Equal("Pierre"))
			Expect(u.Username).To(Equal("pdurand"))
		})

		It("rejects a blank value and a malformed username", func() {
			Expect(user.UpdateUserDTO{Nom: strPtr("")}.Validate()).NotTo(Succeed())
			Expect(user.UpdateUserDTO{Username: strPtr("p durand")}.Validate()).NotTo(Succeed())
		})
	})

	Describe("BcryptCredentialService", func() {
		It("generates passwords of the configured length that verify against their hash", func() {
			svc := user.NewBcryptCredentialService(16, bcrypt.MinCost)
			password, err := svc.Generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(password).To(HaveLen(16))

			hash, err := svc.Hash(password)
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))).To(Succeed())
		})
	})
})
